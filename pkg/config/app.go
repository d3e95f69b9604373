package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/tenantgate/pkg/httpserver"
	"github.com/dmitrymomot/tenantgate/pkg/logger"
	"github.com/dmitrymomot/tenantgate/pkg/subscription"
)

// Engine holds the entitlement settings.
type Engine struct {
	TrialDurationDays int           `env:"TRIAL_DURATION_DAYS" envDefault:"30"`
	CancelPolicy      string        `env:"CANCEL_POLICY" envDefault:"period_end"`
	PlanCatalogPath   string        `env:"PLAN_CATALOG_PATH"`
	SessionCacheTTL   time.Duration `env:"SESSION_CACHE_TTL" envDefault:"30m"`
	// SessionCache selects "memory" or "redis".
	SessionCache string `env:"SESSION_CACHE" envDefault:"memory"`
}

// TrialDuration returns the trial length as a duration.
func (e Engine) TrialDuration() time.Duration {
	return time.Duration(e.TrialDurationDays) * 24 * time.Hour
}

// Auth holds bearer token settings.
type Auth struct {
	SigningKey string        `env:"JWT_SIGNING_KEY"`
	Issuer     string        `env:"JWT_ISSUER" envDefault:"tenantgate"`
	TokenTTL   time.Duration `env:"JWT_TOKEN_TTL" envDefault:"1h"`
}

// Log holds logger settings.
type Log struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`
	Format  string `env:"LOG_FORMAT" envDefault:"json"`
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"SERVICE_NAME" envDefault:"tenantgate"`
}

// App is the whole service configuration. Postgres and Redis are parsed by
// their own packages' configs so each command only requires what it uses.
type App struct {
	Engine Engine
	Auth   Auth
	Log    Log
	HTTP   httpserver.Config
}

// Validate checks values env tags cannot express.
func (a App) Validate() error {
	var errs []error
	if a.Engine.TrialDurationDays <= 0 {
		errs = append(errs, fmt.Errorf("TRIAL_DURATION_DAYS must be positive, got %d", a.Engine.TrialDurationDays))
	}
	if _, err := subscription.ParseCancelPolicy(a.Engine.CancelPolicy); err != nil {
		errs = append(errs, fmt.Errorf("CANCEL_POLICY %q: %w", a.Engine.CancelPolicy, err))
	}
	switch a.Engine.SessionCache {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("SESSION_CACHE must be memory or redis, got %q", a.Engine.SessionCache))
	}
	if _, err := logger.ParseLevel(a.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q: %w", a.Log.Level, err))
	}
	switch logger.Format(a.Log.Format) {
	case logger.FormatJSON, logger.FormatText:
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", a.Log.Format))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}
