package sessions

import (
	"strings"

	"mediflow-service/internal/pkg/constvars"
	"mediflow-service/internal/pkg/fhir_dto"
)

// ParticipantMatchesClinician reports whether a participant reference
// denotes the given clinician. The backend has emitted clinician
// references in several shapes over the years — a bare id, the relative
// "Practitioner/<id>" path, longer paths ending in the id, and logical
// identifier-only references — so a match on any shape is a match.
// Pure and total: absent participant data means "no match", never an
// error.
func ParticipantMatchesClinician(participant fhir_dto.EncounterParticipant, clinicianID string) bool {
	if clinicianID == "" || participant.Individual == nil {
		return false
	}

	ref := participant.Individual.Reference
	if ref != "" {
		if ref == clinicianID {
			return true
		}
		if ref == constvars.FhirReferencePrefixPractitioner+clinicianID {
			return true
		}
		if strings.HasSuffix(ref, "/"+clinicianID) {
			return true
		}
		segments := strings.Split(ref, "/")
		if segments[len(segments)-1] == clinicianID {
			return true
		}
	}

	return participant.Individual.Identifier.Value == clinicianID
}

// EncounterHasClinicianParticipant reports whether any participant of
// the encounter matches the clinician.
func EncounterHasClinicianParticipant(encounter fhir_dto.Encounter, clinicianID string) bool {
	for _, participant := range encounter.Participant {
		if ParticipantMatchesClinician(participant, clinicianID) {
			return true
		}
	}
	return false
}
