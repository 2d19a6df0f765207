package plans

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// planSpec is the YAML shape of a single plan entry.
type planSpec struct {
	Name         string               `yaml:"name"`
	Entitlements map[Entitlement]bool `yaml:"entitlements"`
	Quotas       map[Quota]int64      `yaml:"quotas"`
}

// catalogFile is the YAML shape of a catalog document:
//
//	free_plan: free
//	plans:
//	  free:
//	    name: Free
//	    entitlements: {project.create: true}
//	    quotas: {projects.max: 1, collaborators.org.max: 0}
//	grant_plans:
//	  trial:
//	    name: Trial
//	    quotas: {projects.max: -1}
//
// Quota value -1 means unlimited.
type catalogFile struct {
	FreePlan   string              `yaml:"free_plan"`
	Plans      map[string]planSpec `yaml:"plans"`
	GrantPlans map[string]planSpec `yaml:"grant_plans"`
}

// Parse builds a Catalog from YAML catalog data.
func Parse(data []byte) (Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}

	if file.FreePlan == "" {
		return nil, errors.Join(ErrFailedToLoadCatalog,
			errors.New("catalog file does not declare a free_plan"))
	}

	planSet := make(map[string]Plan, len(file.Plans))
	for id, spec := range file.Plans {
		planSet[id] = spec.toPlan(id)
	}

	grantPlans := make(map[string]Plan, len(file.GrantPlans))
	for grantType, spec := range file.GrantPlans {
		// Synthetic grant plans take the grant type as their plan ID so the
		// resolver can report it as effectivePlanId.
		grantPlans[grantType] = spec.toPlan(grantType)
	}

	return NewInMemCatalog(file.FreePlan, planSet, grantPlans)
}

// LoadFile reads a YAML catalog from disk. The catalog ships as a data file
// so plan changes don't require code changes.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog,
			fmt.Errorf("read catalog file %s: %w", path, err))
	}
	return Parse(data)
}

func (s planSpec) toPlan(id string) Plan {
	p := Plan{
		ID:           id,
		Name:         s.Name,
		Entitlements: s.Entitlements,
		Quotas:       s.Quotas,
	}
	if p.Entitlements == nil {
		p.Entitlements = make(map[Entitlement]bool)
	}
	if p.Quotas == nil {
		p.Quotas = make(map[Quota]int64)
	}
	return p
}
