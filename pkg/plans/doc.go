// Package plans provides the static plan catalog: a lookup from plan
// identifier to an entitlement map and a quota map, plus synthetic plans for
// access grant types (trial, single-project).
//
// The catalog is the single authority on what a plan allows and how much of
// each resource it may consume. It is deliberately dumb: no time, no state,
// no persistence. The access resolver decides WHICH plan applies; the catalog
// only answers what that plan contains.
//
// # Usage
//
// Load a catalog from a YAML data file:
//
//	catalog, err := plans.LoadFile("configs/plans.yml")
//	if err != nil {
//	    // handle error, probably terminate the application
//	}
//
// Or build one in memory (useful in tests):
//
//	catalog, err := plans.NewInMemCatalog("free",
//	    map[string]plans.Plan{
//	        "free": {
//	            ID:   "free",
//	            Name: "Free",
//	            Entitlements: map[plans.Entitlement]bool{
//	                plans.EntitlementCreateProject: true,
//	            },
//	            Quotas: map[plans.Quota]int64{
//	                plans.QuotaProjects:      1,
//	                plans.QuotaCollaborators: 0,
//	            },
//	        },
//	    },
//	    map[string]plans.Plan{
//	        "trial": {ID: "trial", Name: "Trial", Quotas: map[plans.Quota]int64{
//	            plans.QuotaProjects: plans.Unlimited,
//	        }},
//	    },
//	)
//
// Quota values use -1 (plans.Unlimited) as the "no limit" sentinel; check it
// with plans.IsUnlimited rather than comparing against the constant directly.
//
// Catalogs are immutable after construction and safe for concurrent use.
package plans
