package generate

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gmckeown/incident-blaster/internal/models"
)

// Sampler picks one value uniformly at random from a candidate sequence.
// Fields are sampled independently; repeats across and within incidents are
// expected.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a sampler backed by the given random source.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Sample selects one candidate value for a field from the company's merged
// pool.
func (s *Sampler) Sample(view CompanyView, field Field) (string, error) {
	candidates, err := view.Candidates(field)
	if err != nil {
		return "", err
	}
	return s.pick(candidates), nil
}

// pick returns a uniformly random element. Callers guarantee candidates is
// non-empty; pool validation happens when the pools are built.
func (s *Sampler) pick(candidates []string) string {
	return candidates[s.rng.Intn(len(candidates))]
}

// Generator assembles complete incident payloads by sampling every
// configured field and deriving the traceability fields from the runtime
// counter.
type Generator struct {
	pools   *Pools
	sampler *Sampler

	// Now is the clock used for the description timestamp; injectable for
	// deterministic tests.
	Now func() time.Time
}

// NewGenerator creates a generator over the given pools, sampling with the
// given random source.
func NewGenerator(pools *Pools, rng *rand.Rand) *Generator {
	return &Generator{
		pools:   pools,
		sampler: NewSampler(rng),
		Now:     time.Now,
	}
}

// Generate builds one incident payload. The counter is the incident's
// sequence number and is embedded in the description and notes so generated
// test data can be traced back to its run.
func (g *Generator) Generate(counter int) (models.IncidentRequest, error) {
	company := g.sampler.pick(g.pools.Companies())
	view, err := g.pools.Company(company)
	if err != nil {
		return models.IncidentRequest{}, err
	}

	group := g.sampler.pick(view.Groups())
	support := view.Group(group)

	values := models.IncidentValues{
		Description:         fmt.Sprintf("Test incident %d created with Incident Blaster: %s", counter, g.Now().Format("2006-01-02 15:04:05")),
		DetailedDecription:  fmt.Sprintf("These are the notes for test incident %d.", counter),
		Company:             company,
		Action:              "CREATE",
		SupportCompany:      support.SupportCompany,
		SupportOrganization: support.SupportOrganisation,
		AssignedGroup:       group,
	}

	sampled := []struct {
		field Field
		dst   *string
	}{
		{FieldStatus, &values.Status},
		{FieldImpact, &values.Impact},
		{FieldUrgency, &values.Urgency},
		{FieldReportedSource, &values.ReportedSource},
		{FieldServiceType, &values.ServiceType},
		{FieldLoginID, &values.LoginID},
		{FieldServiceCI, &values.ServiceCI},
		{FieldCIName, &values.CIName},
	}
	for _, s := range sampled {
		value, err := g.sampler.Sample(view, s.field)
		if err != nil {
			return models.IncidentRequest{}, err
		}
		*s.dst = value
	}

	// The create form only accepts Assigned, so In Progress and Pending
	// incidents get an assignee here and are moved to their status with a
	// follow-up modification after creation.
	if values.NeedsStatusUpdate() {
		values.Assignee = g.sampler.pick(support.SupportAssignees)
	}
	if values.Status == models.StatusPending {
		reason, err := g.sampler.Sample(view, FieldStatusReason)
		if err != nil {
			return models.IncidentRequest{}, err
		}
		values.StatusReason = reason
	}

	return models.IncidentRequest{Values: values}, nil
}
