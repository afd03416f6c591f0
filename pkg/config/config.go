package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Cache    CacheConfig
	Exports  ExportsConfig
	Locks    LocksConfig
	Reviews  ReviewsConfig
	Health   HealthConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig controls the read-through cache for derived summaries.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// ExportsConfig configures generated clearance documents.
type ExportsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	CleanupInterval time.Duration
}

// LocksConfig tunes record lock requests.
type LocksConfig struct {
	DefaultTTL    time.Duration
	MaxTTL        time.Duration
	SweepInterval time.Duration
}

// ReviewsConfig sets the review board horizon and the due-soon window per record type.
type ReviewsConfig struct {
	HorizonDays int
	IEPDays     int
	Plan504Days int
	GiftedDays  int
	CrisisDays  int
	FeeDays     int
}

// HealthConfig tunes nurse office alerts.
type HealthConfig struct {
	RefillMinDoses int
	RefillDays     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Issuer:     v.GetString("JWT_ISSUER"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 2*time.Minute),
	}

	cfg.Exports = ExportsConfig{
		StorageDir:      v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), time.Hour),
		CleanupInterval: parseDuration(v.GetString("EXPORTS_CLEANUP_INTERVAL"), 24*time.Hour),
	}

	cfg.Locks = LocksConfig{
		DefaultTTL:    parseDuration(v.GetString("LOCK_DEFAULT_TTL"), 15*time.Minute),
		MaxTTL:        parseDuration(v.GetString("LOCK_MAX_TTL"), 2*time.Hour),
		SweepInterval: parseDuration(v.GetString("LOCK_SWEEP_INTERVAL"), time.Minute),
	}

	cfg.Reviews = ReviewsConfig{
		HorizonDays: v.GetInt("REVIEW_HORIZON_DAYS"),
		IEPDays:     v.GetInt("REVIEW_IEP_DUE_SOON_DAYS"),
		Plan504Days: v.GetInt("REVIEW_504_DUE_SOON_DAYS"),
		GiftedDays:  v.GetInt("REVIEW_GIFTED_DUE_SOON_DAYS"),
		CrisisDays:  v.GetInt("REVIEW_CRISIS_DUE_SOON_DAYS"),
		FeeDays:     v.GetInt("REVIEW_FEE_DUE_SOON_DAYS"),
	}

	cfg.Health = HealthConfig{
		RefillMinDoses: v.GetInt("MEDICATION_REFILL_MIN_DOSES"),
		RefillDays:     v.GetInt("MEDICATION_REFILL_DAYS"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "heronix_sis")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "heronix-sis")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "2m")

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "1h")
	v.SetDefault("EXPORTS_CLEANUP_INTERVAL", "24h")

	v.SetDefault("LOCK_DEFAULT_TTL", "15m")
	v.SetDefault("LOCK_MAX_TTL", "2h")
	v.SetDefault("LOCK_SWEEP_INTERVAL", "1m")

	v.SetDefault("REVIEW_HORIZON_DAYS", 30)
	v.SetDefault("REVIEW_IEP_DUE_SOON_DAYS", 30)
	v.SetDefault("REVIEW_504_DUE_SOON_DAYS", 30)
	v.SetDefault("REVIEW_GIFTED_DUE_SOON_DAYS", 30)
	v.SetDefault("REVIEW_CRISIS_DUE_SOON_DAYS", 3)
	v.SetDefault("REVIEW_FEE_DUE_SOON_DAYS", 7)
	v.SetDefault("MEDICATION_REFILL_MIN_DOSES", 5)
	v.SetDefault("MEDICATION_REFILL_DAYS", 14)
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
