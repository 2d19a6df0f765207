package plans

import "maps"

// Plan describes an immutable entitlement/quota bundle.
// Recurring plans and grant-type synthetic plans share this shape, so the
// access resolver can treat both uniformly.
type Plan struct {
	ID           string
	Name         string
	Entitlements map[Entitlement]bool
	Quotas       map[Quota]int64 // -1 represents unlimited
}

// Entitled reports whether the plan enables the given capability.
// Missing keys are treated as disabled.
func (p Plan) Entitled(e Entitlement) bool {
	return p.Entitlements[e]
}

// QuotaLimit returns the limit for a quota key and whether the key is defined.
func (p Plan) QuotaLimit(q Quota) (int64, bool) {
	limit, ok := p.Quotas[q]
	return limit, ok
}

// clone returns a deep copy so catalog callers cannot mutate shared state.
func (p Plan) clone() Plan {
	return Plan{
		ID:           p.ID,
		Name:         p.Name,
		Entitlements: maps.Clone(p.Entitlements),
		Quotas:       maps.Clone(p.Quotas),
	}
}
