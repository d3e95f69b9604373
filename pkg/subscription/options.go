package subscription

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/tenantgate/pkg/plans"
)

const (
	// DefaultTrialDuration is the trial length used when none is configured.
	DefaultTrialDuration = 30 * 24 * time.Hour
	// BillingMonth is the length of one paid month.
	BillingMonth = 30 * 24 * time.Hour
)

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the wall clock. Intended for tests and reconciliation replays.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithTrialDuration sets the trial length. Non-positive values are ignored.
func WithTrialDuration(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.trialDuration = d
		}
	}
}

// WithTrialTier sets the tier used when StartTrial is called without one.
func WithTrialTier(t plans.Tier) Option {
	return func(m *Manager) {
		if t.Valid() {
			m.trialTier = t
		}
	}
}

// WithCancelPolicy selects whether cancelled subscriptions keep access until EndsAt.
// Panics on unknown policies so misconfiguration fails at startup.
func WithCancelPolicy(p CancelPolicy) Option {
	return func(m *Manager) {
		switch p {
		case CancelAtPeriodEnd, CancelImmediately:
			m.cancelPolicy = p
		default:
			panic("subscription: unknown cancel policy " + string(p))
		}
	}
}

// WithCatalog makes StartTrial and Activate reject tiers missing from the catalog.
func WithCatalog(c *plans.Catalog) Option {
	return func(m *Manager) {
		if c != nil {
			m.catalog = c
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithSessionCache replaces the default in-process session cache.
func WithSessionCache(c SessionCache) Option {
	return func(m *Manager) {
		if c != nil {
			m.sessions = c
		}
	}
}
