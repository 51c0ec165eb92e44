package models

// Statuses that require a follow-up modification after the incident is
// created: the create interface form only accepts new incidents as Assigned,
// so these are applied with a second call against the modify form.
const (
	StatusInProgress = "In Progress"
	StatusPending    = "Pending"
)

// IncidentValues is the field set required by the Remedy incident creation
// interface form. The JSON names are the form's own field names, several of
// which contain spaces or historical misspellings (Detailed_Decription).
type IncidentValues struct {
	LoginID             string `json:"Login_ID"`
	Description         string `json:"Description"`
	DetailedDecription  string `json:"Detailed_Decription"`
	Impact              string `json:"Impact"`
	Urgency             string `json:"Urgency"`
	Status              string `json:"Status"`
	ReportedSource      string `json:"Reported Source"`
	ServiceType         string `json:"Service_Type"`
	Company             string `json:"Company"`
	Action              string `json:"z1D_Action"`
	ServiceCI           string `json:"ServiceCI"`
	CIName              string `json:"CI Name"`
	SupportCompany      string `json:"Assigned Support Company"`
	SupportOrganization string `json:"Assigned Support Organization"`
	AssignedGroup       string `json:"Assigned Group"`
	Assignee            string `json:"Assignee,omitempty"`
	StatusReason        string `json:"Status_Reason,omitempty"`
}

// NeedsStatusUpdate reports whether the incident must be moved to its
// sampled status after creation.
func (v IncidentValues) NeedsStatusUpdate() bool {
	return v.Status == StatusInProgress || v.Status == StatusPending
}

// IncidentRequest is the envelope the Remedy entry API expects for a create.
type IncidentRequest struct {
	Values IncidentValues `json:"values"`
}

// EntryResponse represents a single form entry returned by the entry API,
// projected down to the fields requested by the caller.
type EntryResponse struct {
	Values map[string]string `json:"values"`
}

// QueryResponse represents the entry list returned by a qualification query.
type QueryResponse struct {
	Entries []EntryResponse `json:"entries"`
}

// ModifyRequest is the envelope for updating fields on an existing entry.
type ModifyRequest struct {
	Values map[string]string `json:"values"`
}

// Fields returned from a create so the caller can report and follow up on
// the new incident.
const (
	FieldIncidentNumber = "Incident Number"
	FieldRequestID      = "Request ID"
)
