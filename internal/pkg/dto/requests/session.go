package requests

import "time"

// ResolveSession carries the identity pair a resolution runs for. The
// duration override is optional; zero means "ask the policy provider".
type ResolveSession struct {
	PatientID       string `json:"patient_id"`
	ClinicianID     string `json:"clinician_id"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,gte=0"`
}

// EncounterSearch selects encounters for one patient updated inside the
// session window, optionally restricted to a tag.
type EncounterSearch struct {
	PatientID    string
	UpdatedSince time.Time
	Tag          string
}
