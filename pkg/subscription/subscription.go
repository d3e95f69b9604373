package subscription

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantgate/pkg/plans"
)

// AppSubscription is the entitlement record of one organization for one application.
// There is at most one record per (OrganizationID, Application).
type AppSubscription struct {
	OrganizationID uuid.UUID         `json:"organization_id"`
	Application    plans.Application `json:"application"`
	Tier           plans.Tier        `json:"tier"`
	Status         Status            `json:"status"`
	StartedAt      time.Time         `json:"started_at"`
	EndsAt         *time.Time        `json:"ends_at,omitempty"`
	TrialEndsAt    *time.Time        `json:"trial_ends_at,omitempty"`
	CancelledAt    *time.Time        `json:"cancelled_at,omitempty"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Clone returns a deep copy of the record.
func (s *AppSubscription) Clone() *AppSubscription {
	if s == nil {
		return nil
	}
	out := *s
	out.EndsAt = cloneTime(s.EndsAt)
	out.TrialEndsAt = cloneTime(s.TrialEndsAt)
	out.CancelledAt = cloneTime(s.CancelledAt)
	return &out
}

// EffectiveStatus applies lazy expiry to the stored status at now.
func (s *AppSubscription) EffectiveStatus(now time.Time) Status {
	switch {
	case s.Status == StatusExpired:
		return StatusExpired
	case s.Status == StatusTrial && s.TrialEndsAt != nil && s.TrialEndsAt.Before(now):
		return StatusExpired
	case s.EndsAt != nil && s.EndsAt.Before(now):
		return StatusExpired
	}
	return s.Status
}

// TrialDaysRemaining returns the whole days left in a running trial, rounding
// partial days up. It is 0 outside of a running trial.
func (s *AppSubscription) TrialDaysRemaining(now time.Time) int {
	if s.EffectiveStatus(now) != StatusTrial || s.TrialEndsAt == nil {
		return 0
	}
	remaining := s.TrialEndsAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func timePtr(t time.Time) *time.Time {
	return &t
}
