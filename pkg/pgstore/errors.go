package pgstore

import "errors"

var (
	ErrOrganizationNotFound = errors.New("pgstore: organization not found")
	ErrInvalidRole          = errors.New("pgstore: invalid role")
	ErrQueryFailed          = errors.New("pgstore: query failed")
)
