package quota

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/accesskit/pkg/plans"
)

var (
	// ErrQuotaExceeded matches any *QuotaExceededError via errors.Is.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTransactionFailed marks store failures during the admission write,
	// distinct from quota errors so callers can tell "out of quota" from
	// "database unavailable".
	ErrTransactionFailed = errors.New("admission write failed")

	ErrFailedToCountUsage = errors.New("failed to count resource usage")
)

// QuotaExceededError is the structured, user-facing rejection from the
// admission pre-check. It carries everything a caller needs to render an
// upgrade prompt.
type QuotaExceededError struct {
	Key   plans.Quota
	Used  int64
	Limit int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota %s exceeded: %d of %d used", e.Key, e.Used, e.Limit)
}

// Is makes errors.Is(err, ErrQuotaExceeded) work for wrapped instances.
func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}
