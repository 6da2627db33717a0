// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	auditlogfeature "github.com/dalemusser/linkcatalog/internal/app/features/auditlog"
	catalogfeature "github.com/dalemusser/linkcatalog/internal/app/features/catalog"
	errorsfeature "github.com/dalemusser/linkcatalog/internal/app/features/errors"
	healthfeature "github.com/dalemusser/linkcatalog/internal/app/features/health"
	linksfeature "github.com/dalemusser/linkcatalog/internal/app/features/links"
	loginfeature "github.com/dalemusser/linkcatalog/internal/app/features/login"
	logoutfeature "github.com/dalemusser/linkcatalog/internal/app/features/logout"
	auditstore "github.com/dalemusser/linkcatalog/internal/app/store/audit"
	linkstore "github.com/dalemusser/linkcatalog/internal/app/store/links"
	"github.com/dalemusser/linkcatalog/internal/app/system/auditlog"
	"github.com/dalemusser/linkcatalog/internal/app/system/auth"
	"github.com/dalemusser/linkcatalog/internal/app/system/metrics"
	"github.com/dalemusser/linkcatalog/internal/app/system/ratelimit"
	"github.com/dalemusser/linkcatalog/internal/app/system/reqlog"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// The router serves the public listing at "/", the session-gated admin
// area under "/admin", login and logout, the health check and, when
// enabled, Prometheus metrics.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg != nil && coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	sessionMgr.SetAdmin(appCfg.AdminUsername, appCfg.AdminPasswordHash)

	errLog := errorsfeature.NewErrorLogger(logger)

	links := linkstore.NewWithOptions(deps.MongoDatabase, linkstore.Options{
		EnforceCollectionURLs: appCfg.EnforceCollectionURLUniqueness,
	})
	events := auditstore.New(deps.MongoDatabase)
	audit := auditlog.New(events, logger, auditlog.Config{
		Auth:  appCfg.AuditLog,
		Admin: appCfg.AuditLog,
	})

	var limiter *ratelimit.LoginLimiter
	if deps.LoginBackend != nil {
		limiter = ratelimit.NewLoginLimiter(deps.LoginBackend)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(reqlog.Middleware(logger))
	r.Use(middleware.Recoverer)
	if appCfg.MetricsEnabled {
		r.Use(metrics.Middleware)
	}

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(links, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	if appCfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics.RegisterCollectors(reg)
		r.Handle("/metrics", metrics.Handler(reg))
	}

	// Public listing
	catalogHandler := catalogfeature.NewHandler(links, appCfg.PerPage, errLog, logger)
	r.Mount("/", catalogfeature.Routes(catalogHandler))

	r.Route("/admin", func(ar chi.Router) {
		// Authentication
		loginHandler := loginfeature.NewHandler(sessionMgr, limiter, errLog, audit, logger)
		ar.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, audit, logger)
		ar.Mount("/logout", logoutfeature.Routes(logoutHandler))

		// Audit trail
		auditHandler := auditlogfeature.NewHandler(events, errLog, logger)
		ar.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

		// Link management
		linksHandler := linksfeature.NewHandler(links, sessionMgr, appCfg.PerPage, appCfg.MaxBatchSize, errLog, audit, logger)
		ar.Mount("/", linksfeature.Routes(linksHandler, sessionMgr))
	})

	return r, nil
}
