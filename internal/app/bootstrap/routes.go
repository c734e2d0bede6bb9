// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	buddiesfeature "github.com/dalemusser/coachhub/internal/app/features/buddies"
	chatfeature "github.com/dalemusser/coachhub/internal/app/features/chat"
	healthfeature "github.com/dalemusser/coachhub/internal/app/features/health"
	"github.com/dalemusser/coachhub/internal/app/store/audit"
	"github.com/dalemusser/coachhub/internal/app/system/auditlog"
	"github.com/dalemusser/coachhub/internal/app/system/auth"
	buddysvc "github.com/dalemusser/coachhub/internal/app/system/buddies"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. CoachHub serves a JSON API plus the
// static SPA bundle; page rendering lives in the client.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	svc := buddysvc.NewService(deps.CoachHubMongoDatabase, logger)

	auditLogger := auditlog.New(
		audit.New(deps.CoachHubMongoDatabase),
		logger,
		auditlog.Config{Admin: appCfg.AuditAdmin},
	)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.CoachHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static SPA assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Accountability buddies: pairing state, regeneration, rooms, roster
	buddiesHandler := buddiesfeature.NewHandler(deps.CoachHubMongoDatabase, svc, auditLogger, logger)
	r.Mount("/buddies", buddiesfeature.Routes(buddiesHandler, sessionMgr))

	// Chat message history
	chatHandler := chatfeature.NewHandler(deps.CoachHubMongoDatabase, logger)
	r.Mount("/chat", chatfeature.Routes(chatHandler, sessionMgr))

	return r, nil
}
