package responses

import "mediflow-service/internal/pkg/fhir_dto"

// SessionResolution is what the front-end decides on: resume the
// returned encounter ("Edit Consultation") or start a new one.
type SessionResolution struct {
	HasActiveSession bool                `json:"has_active_session"`
	Encounter        *fhir_dto.Encounter `json:"encounter,omitempty"`
}

// SessionSnapshot is one observer state frame on the watch stream.
type SessionSnapshot struct {
	IsResolving      bool                `json:"is_resolving"`
	HasActiveSession bool                `json:"has_active_session"`
	Encounter        *fhir_dto.Encounter `json:"encounter,omitempty"`
	LastError        string              `json:"last_error,omitempty"`
}
