package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action names an audited operation.
type Action string

const (
	ActionAuthorize       Action = "access.authorize"
	ActionAuthorizeCreate Action = "access.authorize_create"
	ActionModuleAccess    Action = "access.module"
	ActionTrialStarted    Action = "subscription.trial_started"
	ActionActivated       Action = "subscription.activated"
	ActionCancelled       Action = "subscription.cancelled"
)

// Event is one audit record of an access decision or entitlement change.
type Event struct {
	ID             uuid.UUID      `json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	Action         Action         `json:"action"`
	OrganizationID uuid.UUID      `json:"organization_id"`
	UserID         uuid.UUID      `json:"user_id"`
	Application    string         `json:"application,omitempty"`
	Permission     string         `json:"permission,omitempty"`
	Resource       string         `json:"resource,omitempty"`
	Allowed        bool           `json:"allowed"`
	Reason         string         `json:"reason,omitempty"`
	RequestID      string         `json:"request_id,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// Validate checks the fields every event must carry.
func (e Event) Validate() error {
	if e.Action == "" {
		return ErrMissingAction
	}
	return nil
}
