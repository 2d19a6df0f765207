package plans

import "errors"

var (
	ErrPlanNotFound      = errors.New("plan not found in catalog")
	ErrGrantPlanNotFound = errors.New("no plan defined for grant type")

	ErrInvalidCatalog      = errors.New("invalid plan catalog configuration")
	ErrFailedToLoadCatalog = errors.New("failed to load plan catalog")
)
