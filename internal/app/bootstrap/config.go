// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/linkcatalog/internal/app/system/auditlog"
	"github.com/dalemusser/linkcatalog/internal/app/system/inputval"
	"github.com/dalemusser/linkcatalog/internal/app/system/paging"
	"github.com/dalemusser/linkcatalog/internal/app/system/passhash"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const (
	devSessionKey    = "dev-only-change-me-please-0123456789ABCDEF"
	minSessionKeyLen = 32
)

// appConfigKeys defines the configuration keys for the catalog.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: LINKCATALOG_MONGO_URI, LINKCATALOG_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "linkcatalog", Desc: "MongoDB database name"},
	{Name: "mongo_connect_timeout", Default: "5s", Desc: "MongoDB server selection timeout"},
	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "linkcatalog-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Admin login lifetime (not sliding)"},

	// Admin identity
	{Name: "admin_username", Default: "admin", Desc: "Admin username"},
	{Name: "admin_password_hash", Default: "", Desc: "Admin password hash (run cmd/hashpassword)"},

	// Catalog
	{Name: "per_page", Default: paging.PerPage, Desc: "Links per page"},
	{Name: "max_batch_size", Default: inputval.DefaultMaxBatch, Desc: "Maximum items in one batch submission"},
	{Name: "enforce_collection_url_uniqueness", Default: false, Desc: "Reject collection URLs that already exist in another link"},

	// Login rate limiting
	{Name: "redis_addr", Default: "", Desc: "Redis address for the login limiter (blank uses memory)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "login_rate_limit", Default: 5, Desc: "Login attempts allowed per window and client IP"},
	{Name: "login_rate_window", Default: "15m", Desc: "Login rate limit window"},

	// Observability
	{Name: "audit_log", Default: auditlog.All, Desc: "Audit logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "metrics_enabled", Default: true, Desc: "Serve Prometheus metrics at /metrics"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, LINKCATALOG_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LINKCATALOG", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:            appValues.String("mongo_uri"),
		MongoDatabase:       appValues.String("mongo_database"),
		MongoConnectTimeout: appValues.Duration("mongo_connect_timeout", 5*time.Second),
		SessionKey:          appValues.String("session_key"),
		SessionName:         appValues.String("session_name"),
		SessionDomain:       appValues.String("session_domain"),
		SessionMaxAge:       appValues.Duration("session_max_age", 24*time.Hour),

		AdminUsername:     appValues.String("admin_username"),
		AdminPasswordHash: appValues.String("admin_password_hash"),

		PerPage:                        appValues.Int("per_page"),
		MaxBatchSize:                   appValues.Int("max_batch_size"),
		EnforceCollectionURLUniqueness: appValues.Bool("enforce_collection_url_uniqueness"),

		RedisAddr:       appValues.String("redis_addr"),
		RedisPassword:   appValues.String("redis_password"),
		LoginRateLimit:  appValues.Int("login_rate_limit"),
		LoginRateWindow: appValues.Duration("login_rate_window", 15*time.Minute),

		AuditLog:       appValues.String("audit_log"),
		MetricsEnabled: appValues.Bool("metrics_enabled"),
	}

	if appCfg.AdminPasswordHash == "" {
		logger.Warn("admin_password_hash is not set; admin login is disabled until it is")
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return errors.New("mongo_database must not be empty")
	}

	if len(appCfg.SessionKey) < minSessionKeyLen {
		return fmt.Errorf("session_key must be at least %d characters", minSessionKeyLen)
	}
	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.SessionKey == devSessionKey {
		return errors.New("session_key must be changed from the development default in production")
	}
	if appCfg.SessionMaxAge <= 0 {
		return errors.New("session_max_age must be positive")
	}

	if appCfg.AdminUsername == "" {
		return errors.New("admin_username must not be empty")
	}
	if appCfg.AdminPasswordHash != "" {
		if err := passhash.Check(appCfg.AdminPasswordHash); err != nil {
			return fmt.Errorf("admin_password_hash: %w", err)
		}
	}

	if appCfg.PerPage <= 0 || appCfg.PerPage > paging.MaxPerPage {
		return fmt.Errorf("per_page must be between 1 and %d", paging.MaxPerPage)
	}
	if appCfg.MaxBatchSize <= 0 {
		return errors.New("max_batch_size must be positive")
	}
	if appCfg.LoginRateLimit < 0 {
		return errors.New("login_rate_limit must not be negative")
	}
	if appCfg.LoginRateLimit > 0 && appCfg.LoginRateWindow <= 0 {
		return errors.New("login_rate_window must be positive")
	}

	if !auditlog.Valid(appCfg.AuditLog) {
		return fmt.Errorf("audit_log must be one of all, db, log, off (got %q)", appCfg.AuditLog)
	}

	return nil
}
