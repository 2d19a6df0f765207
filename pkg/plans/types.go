package plans

// Entitlement is a boolean capability flag attached to a plan.
type Entitlement string

// Predefined entitlement keys.
const (
	EntitlementCreateProject Entitlement = "project.create"
	EntitlementInviteMember  Entitlement = "member.invite"
	EntitlementExportData    Entitlement = "data.export"
	EntitlementAPIAccess     Entitlement = "api.access"
	EntitlementCustomDomain  Entitlement = "custom_domain"
)

// Quota is a numeric resource ceiling attached to a plan.
type Quota string

// Predefined quota keys.
const (
	QuotaProjects      Quota = "projects.max"
	QuotaCollaborators Quota = "collaborators.org.max"
)

const (
	// Unlimited indicates no limit for a quota (-1 chosen for SQL compatibility)
	Unlimited int64 = -1
)

// IsUnlimited reports whether the given limit is the unlimited sentinel.
func IsUnlimited(limit int64) bool {
	return limit == Unlimited
}
