// Package generate builds randomized incident payloads from configured
// field value pools.
package generate

import (
	"fmt"
	"sort"

	"github.com/gmckeown/incident-blaster/internal/config"
)

// Field identifies one sampled incident field. Pool lookups are keyed by
// these identifiers rather than free-form strings so a missing pool is
// caught when the pools are built, not in the middle of a run.
type Field string

const (
	FieldStatus         Field = "Status"
	FieldImpact         Field = "Impact"
	FieldUrgency        Field = "Urgency"
	FieldReportedSource Field = "Reported Source"
	FieldServiceType    Field = "Service_Type"
	FieldStatusReason   Field = "Status_Reason"
	FieldLoginID        Field = "Login_ID"
	FieldServiceCI      Field = "ServiceCI"
	FieldCIName         Field = "CI Name"
)

// sharedFields are supplied by the standard configuration document.
var sharedFields = []Field{
	FieldStatus,
	FieldImpact,
	FieldUrgency,
	FieldReportedSource,
	FieldServiceType,
	FieldStatusReason,
}

// companyFields are supplied per company by the customer configuration
// document.
var companyFields = []Field{
	FieldLoginID,
	FieldServiceCI,
	FieldCIName,
}

// Pools holds the merged candidate value pools for every sampled field.
// Lookup resolves the company-specific pool first and falls back to the
// shared pool, so installation-specific entries shadow shared entries of
// the same field name.
type Pools struct {
	shared    map[Field][]string
	companies map[string]companyPools

	// companyNames is kept sorted so sampling with a seeded generator is
	// deterministic; map iteration order is not.
	companyNames []string
}

type companyPools struct {
	fields     map[Field][]string
	groups     map[string]config.SupportGroup
	groupNames []string
}

// NewPools merges the shared and installation-specific value pools and
// validates that every required pool is non-empty. Validation failures name
// the offending field (and company) so misconfiguration is caught before
// any incident is generated.
func NewPools(std config.StandardConfig, customers config.CustomerConfig) (*Pools, error) {
	shared := map[Field][]string{
		FieldStatus:         std.Statuses,
		FieldImpact:         std.Impacts,
		FieldUrgency:        std.Urgencies,
		FieldReportedSource: std.Sources,
		FieldServiceType:    std.IncidentTypes,
		FieldStatusReason:   std.PendingReasons,
	}
	for _, field := range sharedFields {
		if len(shared[field]) == 0 {
			return nil, fmt.Errorf("standard config: value pool for %q is empty", field)
		}
	}

	if len(customers) == 0 {
		return nil, fmt.Errorf("customer config: no companies configured")
	}

	companies := make(map[string]companyPools, len(customers))
	names := make([]string, 0, len(customers))
	for name, cc := range customers {
		cp := companyPools{
			fields: map[Field][]string{
				FieldLoginID:   cc.ContactLogonIDs,
				FieldServiceCI: cc.Services,
				FieldCIName:    cc.CIs,
			},
			groups: cc.Assignees,
		}
		for _, field := range companyFields {
			if len(cp.fields[field]) == 0 {
				return nil, fmt.Errorf("customer config: company %q has an empty value pool for %q", name, field)
			}
		}
		if len(cc.Assignees) == 0 {
			return nil, fmt.Errorf("customer config: company %q has no assignee groups", name)
		}
		for group, sg := range cc.Assignees {
			if len(sg.SupportAssignees) == 0 {
				return nil, fmt.Errorf("customer config: company %q group %q has no support assignees", name, group)
			}
			cp.groupNames = append(cp.groupNames, group)
		}
		sort.Strings(cp.groupNames)
		companies[name] = cp
		names = append(names, name)
	}
	sort.Strings(names)

	return &Pools{shared: shared, companies: companies, companyNames: names}, nil
}

// Companies returns the configured company names in sorted order.
func (p *Pools) Companies() []string {
	return p.companyNames
}

// Company returns the pool view for one company.
func (p *Pools) Company(name string) (CompanyView, error) {
	if _, ok := p.companies[name]; !ok {
		return CompanyView{}, fmt.Errorf("company %q is not configured", name)
	}
	return CompanyView{name: name, pools: p}, nil
}

// CompanyView resolves field pools for one company, with that company's
// pools shadowing the shared ones.
type CompanyView struct {
	name  string
	pools *Pools
}

// Name returns the company this view resolves for.
func (v CompanyView) Name() string { return v.name }

// Candidates returns the merged candidate sequence for a field.
func (v CompanyView) Candidates(field Field) ([]string, error) {
	cp := v.pools.companies[v.name]
	if values, ok := cp.fields[field]; ok && len(values) > 0 {
		return values, nil
	}
	if values, ok := v.pools.shared[field]; ok && len(values) > 0 {
		return values, nil
	}
	return nil, fmt.Errorf("no candidate values for field %q (company %q)", field, v.name)
}

// Groups returns the company's assignee group names in sorted order.
func (v CompanyView) Groups() []string {
	return v.pools.companies[v.name].groupNames
}

// Group returns the routing details for one assignee group.
func (v CompanyView) Group(name string) config.SupportGroup {
	return v.pools.companies[v.name].groups[name]
}
