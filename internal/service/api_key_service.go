package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/validation"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/errors"
)

const (
	apiKeyResource = "api_key"
	apiKeyPrefix   = "hx"
)

type apiKeyRepository interface {
	Create(ctx context.Context, key *models.APIKey) error
	FindByID(ctx context.Context, id int64) (*models.APIKey, error)
	FindByHash(ctx context.Context, keyHash string) (*models.APIKey, error)
	Revoke(ctx context.Context, id int64, actor *int64, at time.Time) error
	TouchLastUsed(ctx context.Context, id int64, at time.Time) error
}

// IssueAPIKeyRequest describes a new integration key.
type IssueAPIKeyRequest struct {
	Name      string     `json:"name" validate:"required,max=120"`
	Scopes    []string   `json:"scopes" validate:"required,min=1,dive,required"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// IssuedAPIKey is returned once at creation. RawKey is never stored.
type IssuedAPIKey struct {
	Key    *models.APIKey `json:"key"`
	RawKey string         `json:"raw_key"`
}

// APIKeyService issues and verifies integration keys. Keys have the form
// hx_<prefix>.<secret>; the full key is indexed by a sha256 digest and the
// secret is also checked against a bcrypt hash.
type APIKeyService struct {
	repo      apiKeyRepository
	metrics   *MetricsService
	audit     *AuditService
	validator *validator.Validate
	logger    *zap.Logger
	now       Clock
	cost      int
}

// NewAPIKeyService constructs an APIKeyService.
func NewAPIKeyService(repo apiKeyRepository, metrics *MetricsService, audit *AuditService, validate *validator.Validate, logger *zap.Logger) *APIKeyService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIKeyService{repo: repo, metrics: metrics, audit: audit, validator: validate, logger: logger, now: systemClock, cost: bcrypt.DefaultCost}
}

// WithClock overrides the time source.
func (s *APIKeyService) WithClock(now Clock) *APIKeyService {
	if now != nil {
		s.now = now
	}
	return s
}

// WithBcryptCost lowers hashing cost, mainly for tests.
func (s *APIKeyService) WithBcryptCost(cost int) *APIKeyService {
	if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
		s.cost = cost
	}
	return s
}

// Issue creates a key and returns the raw value, which cannot be recovered later.
func (s *APIKeyService) Issue(ctx context.Context, req IssueAPIKeyRequest, actor *int64) (*IssuedAPIKey, error) {
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, err
	}
	prefixBytes, err := randomBytes(4)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to generate api key")
	}
	secretBytes, err := randomBytes(32)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to generate api key")
	}
	prefix := apiKeyPrefix + "_" + hex.EncodeToString(prefixBytes)
	secret := base64.RawURLEncoding.EncodeToString(secretBytes)
	raw := prefix + "." + secret

	secretHash, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash api key")
	}

	now := s.now()
	scopes := make([]string, 0, len(req.Scopes))
	for _, scope := range req.Scopes {
		scopes = append(scopes, strings.TrimSpace(scope))
	}
	key := &models.APIKey{
		Name:       req.Name,
		KeyPrefix:  prefix,
		KeyHash:    digest(raw),
		SecretHash: string(secretHash),
		Scopes:     strings.Join(scopes, ","),
		OwnerID:    actor,
		Status:     models.APIKeyStatusActive,
		IssuedAt:   now,
		ExpiresAt:  req.ExpiresAt,
	}
	key.StampCreate(actor, now)
	if err := validation.Struct(s.validator, key); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, key); err != nil {
		return nil, appErrors.Internal(err, "failed to store api key")
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionKeyIssue,
		Resource:   apiKeyResource,
		ResourceID: key.ID,
		New:        map[string]interface{}{"name": key.Name, "prefix": key.KeyPrefix, "scopes": key.ScopeList()},
	})
	s.logger.Info("api key issued", zap.Int64("api_key_id", key.ID), zap.String("prefix", key.KeyPrefix))
	return &IssuedAPIKey{Key: key, RawKey: raw}, nil
}

// Verify resolves a raw key to an active, unexpired, unrevoked key.
func (s *APIKeyService) Verify(ctx context.Context, raw string) (*models.APIKey, error) {
	raw = strings.TrimSpace(raw)
	dot := strings.LastIndex(raw, ".")
	if dot <= 0 || dot == len(raw)-1 {
		s.metrics.RecordAPIKeyCheck("malformed")
		return nil, appErrors.ErrInvalidAPIKey
	}
	key, err := s.repo.FindByHash(ctx, digest(raw))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordAPIKeyCheck("unknown")
			return nil, appErrors.ErrInvalidAPIKey
		}
		return nil, appErrors.Internal(err, "failed to load api key")
	}
	if bcrypt.CompareHashAndPassword([]byte(key.SecretHash), []byte(raw[dot+1:])) != nil {
		s.metrics.RecordAPIKeyCheck("mismatch")
		return nil, appErrors.ErrInvalidAPIKey
	}
	now := s.now()
	if !key.IsValid(now) {
		s.metrics.RecordAPIKeyCheck("inactive")
		return nil, appErrors.Clone(appErrors.ErrInvalidAPIKey, "api key expired or revoked")
	}
	if err := s.repo.TouchLastUsed(ctx, key.ID, now); err != nil {
		s.logger.Warn("failed to record api key use", zap.Int64("api_key_id", key.ID), zap.Error(err))
	}
	key.LastUsedAt = models.TimePtr(now)
	s.metrics.RecordAPIKeyCheck("ok")
	return key, nil
}

// Revoke disables a key permanently.
func (s *APIKeyService) Revoke(ctx context.Context, id int64, actor *int64) error {
	key, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, "api key")
	}
	if err := validation.APIKeyTransitions.CheckTransition(key.Status, models.APIKeyStatusRevoked); err != nil {
		return err
	}
	if err := s.repo.Revoke(ctx, id, actor, s.now()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrConflict, "api key already revoked")
		}
		return appErrors.Internal(err, "failed to revoke api key")
	}
	s.audit.Record(ctx, AuditEntry{Actor: actor, Action: models.AuditActionKeyRevoke, Resource: apiKeyResource, ResourceID: id})
	s.logger.Info("api key revoked", zap.Int64("api_key_id", id), zap.String("prefix", key.KeyPrefix))
	return nil
}

func digest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("read random: %w", err)
	}
	return buf, nil
}
