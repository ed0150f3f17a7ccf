package fhir_dto

// Encounter is the read-only projection of a clinical encounter as the
// backend returns it. Visit records share this shape: a visit is an
// encounter-store resource tagged "visit" whose period spans the whole
// hospital stay.
type Encounter struct {
	ResourceType string                 `json:"resourceType,omitempty"`
	ID           string                 `json:"id,omitempty"`
	Meta         Meta                   `json:"meta,omitempty"`
	Identifier   []Identifier           `json:"identifier,omitempty"`
	Status       string                 `json:"status,omitempty"`
	Class        Coding                 `json:"class,omitempty"`
	Type         []CodeableConcept      `json:"type,omitempty"`
	Subject      Reference              `json:"subject,omitempty"`
	Participant  []EncounterParticipant `json:"participant,omitempty"`
	Period       *Period                `json:"period,omitempty"`
	PartOf       *Reference             `json:"partOf,omitempty"`
}

type EncounterParticipant struct {
	Type       []CodeableConcept `json:"type,omitempty"`
	Period     *Period           `json:"period,omitempty"`
	Individual *Reference        `json:"individual,omitempty"`
}

// HasStarted reports whether the encounter carries a period start time.
func (e *Encounter) HasStarted() bool {
	return e.Period != nil && e.Period.Start != ""
}

// IsOpen reports whether the encounter period has started and not ended.
// A visit record with an open period is the patient's active visit.
func (e *Encounter) IsOpen() bool {
	return e.HasStarted() && e.Period.End == ""
}
