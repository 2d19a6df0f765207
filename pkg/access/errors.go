package access

import "errors"

var (
	ErrGrantNotFound      = errors.New("access grant not found")
	ErrUnknownGrantType   = errors.New("unknown access grant type")
	ErrInvalidGrantWindow = errors.New("access grant window is invalid")
	ErrTrialGrantExists   = errors.New("org already has a non-revoked trial grant")
	ErrGrantRevoked       = errors.New("access grant is already revoked")

	ErrResolvedAccessNotInContext = errors.New("resolved access not found in context")
)
