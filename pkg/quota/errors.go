package quota

import "errors"

var (
	ErrQuotaExceeded        = errors.New("quota.errors.quota_exceeded")
	ErrFailedToCountUsage   = errors.New("quota.errors.failed_to_count_usage")
	ErrNoCounterRegistered  = errors.New("quota.errors.no_counter_registered")
	ErrDowngradeNotPossible = errors.New("quota.errors.downgrade_not_possible")
	ErrInvalidAmount        = errors.New("quota.errors.invalid_amount")
)
