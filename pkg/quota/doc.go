// Package quota computes current resource usage, validates plan downgrades
// against it, and gates the creation of quota-counted resources.
//
// # Downgrade validation
//
// ValidatePlanChange is purely advisory: it compares the org's derived usage
// (project rows, non-owner memberships) against a candidate plan's quotas and
// returns violations as data rather than errors:
//
//	check, err := validator.ValidatePlanChange(ctx, orgID, "free")
//	if err != nil {
//	    // unknown plan or store failure
//	}
//	if !check.Valid {
//	    for _, v := range check.Violations {
//	        fmt.Println(v.Message) // "plan free allows 1 project but 5 are in use; remove 4 to switch"
//	    }
//	}
//
// # Quota-gated admission
//
// Gate.Admit wraps every creation of a quota-counted resource in the
// pre-check / atomic write / post-check protocol:
//
//	result, err := gate.Admit(ctx, orgID, plans.QuotaProjects, limit,
//	    counter, // fresh count, e.g. pg.UsageSource.CountProjects
//	    func(ctx context.Context) error {
//	        return projectStore.Create(ctx, project, ownerID)
//	    },
//	)
//
//	var quotaErr *quota.QuotaExceededError
//	switch {
//	case errors.As(err, &quotaErr):
//	    // out of quota: show upgrade prompt with quotaErr.Used / quotaErr.Limit
//	case errors.Is(err, quota.ErrTransactionFailed):
//	    // store failure: retry or surface a 5xx
//	case err == nil && result.RaceDetected:
//	    // bounded over-admission; already logged for operator review
//	}
//
// The protocol is deliberately optimistic. Without a cross-request lock, two
// admissions can both pass the pre-check before either batch commits; the
// post-check detects and reports the race instead of rolling back. At most
// concurrency-degree minus one extra resources can slip in. Preserve this
// trade-off: upgrading to a lock-based design changes observable behavior.
//
// # Cached counters
//
// CachedCounter adds a Redis cache in front of a CounterFunc for read-heavy
// display paths. Admission pre-checks must keep using uncached counters.
package quota
