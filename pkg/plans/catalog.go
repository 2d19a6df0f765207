package plans

import (
	"errors"
	"fmt"
)

// Catalog is a static lookup from plan identifier to its entitlement/quota
// bundle. Implementations must be safe for concurrent reads; the access
// resolver calls them on every resolution.
type Catalog interface {
	// Plan returns the plan with the given ID.
	// Returns ErrPlanNotFound if no such plan is defined.
	Plan(id string) (Plan, error)

	// GrantPlan returns the synthetic plan for a grant type (e.g. "trial").
	// Returns ErrGrantPlanNotFound if the grant type has no plan.
	GrantPlan(grantType string) (Plan, error)

	// FreePlanID returns the identifier of the distinguished default plan
	// used when an org has neither a subscription nor a grant.
	FreePlanID() string
}

// inMemCatalog implements Catalog over immutable in-memory maps.
type inMemCatalog struct {
	// Maps are treated as immutable after construction; thread-safety
	// depends on this (no runtime modifications, clones on every read).
	plans      map[string]Plan
	grantPlans map[string]Plan
	freePlanID string
}

// NewInMemCatalog builds a Catalog from a deep copy of the given plan maps.
// Each plan's ID must match its map key, every quota must be non-negative or
// the Unlimited sentinel, and freePlanID must name an existing plan.
func NewInMemCatalog(freePlanID string, planSet map[string]Plan, grantPlans map[string]Plan) (Catalog, error) {
	c := &inMemCatalog{
		plans:      make(map[string]Plan, len(planSet)),
		grantPlans: make(map[string]Plan, len(grantPlans)),
		freePlanID: freePlanID,
	}

	for id, plan := range planSet {
		if err := validatePlan(id, plan); err != nil {
			return nil, err
		}
		c.plans[id] = plan.clone()
	}

	for grantType, plan := range grantPlans {
		if err := validatePlan(plan.ID, plan); err != nil {
			return nil, err
		}
		c.grantPlans[grantType] = plan.clone()
	}

	if _, exists := c.plans[freePlanID]; !exists {
		return nil, errors.Join(ErrInvalidCatalog,
			fmt.Errorf("free plan %q is not defined in the catalog", freePlanID))
	}

	return c, nil
}

// Plan returns a copy of the plan with the given ID.
func (c *inMemCatalog) Plan(id string) (Plan, error) {
	plan, exists := c.plans[id]
	if !exists {
		return Plan{}, ErrPlanNotFound
	}
	return plan.clone(), nil
}

// GrantPlan returns a copy of the synthetic plan for a grant type.
func (c *inMemCatalog) GrantPlan(grantType string) (Plan, error) {
	plan, exists := c.grantPlans[grantType]
	if !exists {
		return Plan{}, ErrGrantPlanNotFound
	}
	return plan.clone(), nil
}

// FreePlanID returns the default plan identifier.
func (c *inMemCatalog) FreePlanID() string {
	return c.freePlanID
}

// validatePlan checks a single plan configuration for validity.
func validatePlan(id string, plan Plan) error {
	if plan.ID != id {
		return errors.Join(ErrInvalidCatalog,
			fmt.Errorf("plan ID mismatch: map key %q != plan.ID %q", id, plan.ID))
	}

	for key, limit := range plan.Quotas {
		if limit < 0 && limit != Unlimited {
			return errors.Join(ErrInvalidCatalog,
				fmt.Errorf("plan %q has negative quota %s: %d", id, key, limit))
		}
	}

	return nil
}
