package quota

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/accesskit/pkg/plans"
)

// Violation describes one quota the org currently exceeds under a candidate
// plan, with a remediation hint suitable for direct display.
type Violation struct {
	Key     plans.Quota
	Used    int64
	Limit   int64
	Message string
}

// PlanChangeCheck is the advisory result of a downgrade validation. It is
// data, not an error: exceeding a quota is an expected answer, not an
// exceptional condition.
type PlanChangeCheck struct {
	Valid      bool
	Violations []Violation
	Usage      Usage
	TargetPlan plans.Plan
}

// Validator checks current resource usage against a candidate plan's quotas.
// It performs no mutation and is safe to call speculatively before committing
// a plan change.
type Validator struct {
	usage   UsageSource
	catalog plans.Catalog
}

// NewValidator creates a Validator with the given collaborators.
// Panics if either dependency is nil to fail fast during initialization.
func NewValidator(usage UsageSource, catalog plans.Catalog) *Validator {
	if usage == nil {
		panic("quota: UsageSource is required")
	}
	if catalog == nil {
		panic("quota: plans.Catalog is required")
	}
	return &Validator{usage: usage, catalog: catalog}
}

// GetUsage returns the org's current resource counts.
func (v *Validator) GetUsage(ctx context.Context, orgID uuid.UUID) (Usage, error) {
	projects, err := v.usage.CountProjects(ctx, orgID)
	if err != nil {
		return Usage{}, errors.Join(ErrFailedToCountUsage, err)
	}

	collaborators, err := v.usage.CountCollaborators(ctx, orgID)
	if err != nil {
		return Usage{}, errors.Join(ErrFailedToCountUsage, err)
	}

	return Usage{Projects: projects, Collaborators: collaborators}, nil
}

// ValidatePlanChange reports whether the org's current usage fits the target
// plan. Unlimited target quotas are skipped. Errors are reserved for unknown
// plan IDs and store failures; "would violate a quota" is returned as data.
func (v *Validator) ValidatePlanChange(ctx context.Context, orgID uuid.UUID, targetPlanID string) (*PlanChangeCheck, error) {
	target, err := v.catalog.Plan(targetPlanID)
	if err != nil {
		return nil, err
	}

	usage, err := v.GetUsage(ctx, orgID)
	if err != nil {
		return nil, err
	}

	comparisons := []struct {
		key  plans.Quota
		used int64
		noun string
	}{
		{plans.QuotaProjects, usage.Projects, "project"},
		{plans.QuotaCollaborators, usage.Collaborators, "collaborator"},
	}

	check := &PlanChangeCheck{
		Usage:      usage,
		TargetPlan: target,
	}

	for _, c := range comparisons {
		limit, defined := target.QuotaLimit(c.key)
		if !defined || plans.IsUnlimited(limit) {
			continue
		}
		if c.used <= limit {
			continue
		}
		check.Violations = append(check.Violations, Violation{
			Key:   c.key,
			Used:  c.used,
			Limit: limit,
			Message: fmt.Sprintf("plan %s allows %d %ss but %d are in use; remove %d to switch",
				target.ID, limit, c.noun, c.used, c.used-limit),
		})
	}

	check.Valid = len(check.Violations) == 0
	return check, nil
}
