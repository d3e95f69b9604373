package plans

import "errors"

var (
	ErrUnknownApplication       = errors.New("plans: unknown application")
	ErrUnknownTier              = errors.New("plans: unknown tier")
	ErrUnknownResource          = errors.New("plans: unknown resource")
	ErrPlanNotFound             = errors.New("plans: plan not found")
	ErrInvalidPlanConfiguration = errors.New("plans: invalid plan configuration")
	ErrFailedToLoadCatalog      = errors.New("plans: failed to load catalog")
)
