package main

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/michaelkatsweb/Heronix-Application-sub017/api/swagger"
	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/handler"
	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/middleware"
	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/service"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/config"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/logger"
	corsmiddleware "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/middleware/cors"
	reqidmiddleware "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/middleware/requestid"
)

// Integration key scopes.
const (
	scopeWithdrawalsRead = "withdrawals:read"
	scopeMedicationsRead = "medications:read"
	scopeReviewsRead     = "reviews:read"
)

type routerDeps struct {
	tokens  middleware.TokenValidator
	apiKeys middleware.KeyVerifier
	metrics *service.MetricsService

	withdrawals *handler.WithdrawalHandler
	exports     *handler.ExportHandler
	medications *handler.MedicationHandler
	locks       *handler.LockHandler
	keys        *handler.APIKeyHandler
	reviews     *handler.ReviewHandler
	enums       *handler.EnumHandler
	health      *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(d.metrics))
	r.Use(middleware.RequestMeta())
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", d.health.Health)
	r.GET("/ready", d.health.Ready)
	r.GET("/metrics", d.health.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := "/" + strings.Trim(cfg.APIPrefix, "/")
	if prefix == "/" {
		prefix = "/api/v1"
	}
	api := r.Group(prefix)

	api.GET("/exports/:token", d.exports.Download)

	public := api.Group("", middleware.OptionalJWT(d.tokens))
	public.GET("/enums", d.enums.List)
	public.GET("/enums/:name", d.enums.Get)

	secured := api.Group("", middleware.JWT(d.tokens))

	staff := middleware.RequireRoles(models.RoleRegistrar, models.RoleCounselor)
	registrar := middleware.RequireRoles(models.RoleRegistrar)
	nurse := middleware.RequireRoles(models.RoleNurse)
	admin := middleware.RequireRoles()

	withdrawals := secured.Group("/withdrawals")
	withdrawals.GET("", staff, d.withdrawals.List)
	withdrawals.POST("", registrar, d.withdrawals.Create)
	withdrawals.GET("/:id", staff, d.withdrawals.Get)
	withdrawals.GET("/:id/summary", middleware.RequireRoles(models.RoleRegistrar, models.RoleCounselor, models.RoleTeacher, models.RoleNurse), d.withdrawals.Summary)
	withdrawals.PATCH("/:id/checklist", staff, d.withdrawals.UpdateChecklist)
	withdrawals.POST("/:id/transition", registrar, d.withdrawals.Transition)
	withdrawals.GET("/:id/history", staff, d.withdrawals.History)
	withdrawals.GET("/:id/export", staff, d.withdrawals.Export)

	secured.GET("/students/:id/medications", nurse, d.medications.ListByStudent)
	secured.GET("/students/:id/medications/active", nurse, d.medications.ActiveForStudent)
	secured.POST("/medications", nurse, d.medications.Create)
	secured.GET("/medications/active", nurse, d.medications.ActiveToday)
	secured.GET("/medications/refills", nurse, d.medications.Refills)
	secured.PATCH("/medications/:id/status", nurse, d.medications.ChangeStatus)

	secured.POST("/locks", d.locks.Acquire)
	secured.DELETE("/locks/:token", d.locks.Release)

	secured.GET("/reviews/due", middleware.RequireRoles(models.RoleCounselor, models.RoleNurse, models.RoleRegistrar), d.reviews.Due)

	secured.POST("/api-keys", admin, d.keys.Issue)
	secured.DELETE("/api-keys/:id", admin, d.keys.Revoke)
	secured.GET("/metrics/snapshot", admin, d.health.Snapshot)

	integrations := api.Group("/integrations")
	integrations.GET("/withdrawals", middleware.APIKey(d.apiKeys, scopeWithdrawalsRead), d.withdrawals.List)
	integrations.GET("/withdrawals/:id/summary", middleware.APIKey(d.apiKeys, scopeWithdrawalsRead), d.withdrawals.Summary)
	integrations.GET("/medications/active", middleware.APIKey(d.apiKeys, scopeMedicationsRead), d.medications.ActiveToday)
	integrations.GET("/reviews/due", middleware.APIKey(d.apiKeys, scopeReviewsRead), d.reviews.Due)

	return r
}
