package quota

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/dmitrymomot/accesskit/pkg/plans"
)

// AdmissionResult is the tagged outcome of one admission attempt. A detected
// race is surfaced structurally, not hidden inside a log line, so callers and
// tests can assert on it.
type AdmissionResult struct {
	Admitted     bool
	RaceDetected bool
	Observed     int64 // usage observed by the post-write check
	Limit        int64
}

// Gate runs the quota-gated admission protocol for creating quota-counted
// resources: pre-check, atomic write, post-write re-verification.
//
// This is optimistic admission with race detection, not locking. Two
// admissions for the same org racing through the pre-check simultaneously can
// both pass before either write commits; the window bounds over-admission to
// at most concurrency-degree minus one extra resources, in exchange for not
// holding a distributed lock per org. Do not replace with a lock-based design
// without flagging the behavioral change.
type Gate struct {
	log *slog.Logger
}

// GateOption configures a Gate instance.
type GateOption func(*Gate)

// WithLogger sets the observability sink for race-detection warnings.
// Absence of a logger suppresses diagnostics but never changes admission
// outcomes.
func WithLogger(log *slog.Logger) GateOption {
	return func(g *Gate) {
		if log != nil {
			g.log = log
		}
	}
}

// NewGate creates an admission gate.
func NewGate(opts ...GateOption) *Gate {
	g := &Gate{
		log: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Admit runs one admission attempt for the given quota key.
//
// The pre-check rejects with a *QuotaExceededError before any write when
// used+1 would exceed the limit; an unlimited limit bypasses counting
// entirely. The write executes as the caller's atomic batch; store failures
// surface joined with ErrTransactionFailed and leave no partial effect. The
// post-check re-reads usage after the commit: an over-limit observation means
// a concurrent admission raced past the pre-check. The created resource is
// not rolled back; the race is reported in the result and logged at warning
// level for operator review.
func (g *Gate) Admit(ctx context.Context, orgID uuid.UUID, key plans.Quota, limit int64, count CounterFunc, write WriteFunc) (AdmissionResult, error) {
	if count == nil {
		panic("quota: CounterFunc is required")
	}
	if write == nil {
		panic("quota: WriteFunc is required")
	}

	unlimited := plans.IsUnlimited(limit)

	if !unlimited {
		used, err := count(ctx, orgID)
		if err != nil {
			return AdmissionResult{}, errors.Join(ErrFailedToCountUsage, err)
		}
		if used+1 > limit {
			return AdmissionResult{Limit: limit}, &QuotaExceededError{Key: key, Used: used, Limit: limit}
		}
	}

	if err := write(ctx); err != nil {
		return AdmissionResult{}, errors.Join(ErrTransactionFailed, err)
	}

	result := AdmissionResult{Admitted: true, Limit: limit}
	if unlimited {
		return result, nil
	}

	observed, err := count(ctx, orgID)
	if err != nil {
		// The write already committed; the admission stands. Losing the
		// post-check only costs race visibility, so report and move on.
		g.log.WarnContext(ctx, "post-admission usage check failed",
			"org_id", orgID,
			"quota", key,
			"error", err,
		)
		return result, nil
	}

	result.Observed = observed
	if observed > limit {
		result.RaceDetected = true
		g.log.WarnContext(ctx, "quota race detected",
			"org_id", orgID,
			"quota", key,
			"observed", observed,
			"limit", limit,
		)
	}

	return result, nil
}
