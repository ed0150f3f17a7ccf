package sessions

import (
	"testing"

	"mediflow-service/internal/pkg/fhir_dto"

	"github.com/stretchr/testify/assert"
)

func participantWithReference(ref string) fhir_dto.EncounterParticipant {
	return fhir_dto.EncounterParticipant{
		Individual: &fhir_dto.Reference{Reference: ref},
	}
}

func TestParticipantMatchesClinician(t *testing.T) {
	clinicianID := "prac-42"

	t.Run("Bare ID", func(t *testing.T) {
		assert.True(t, ParticipantMatchesClinician(participantWithReference("prac-42"), clinicianID))
	})

	t.Run("Relative Practitioner Path", func(t *testing.T) {
		assert.True(t, ParticipantMatchesClinician(participantWithReference("Practitioner/prac-42"), clinicianID))
	})

	t.Run("Longer Path Ending In ID", func(t *testing.T) {
		assert.True(t, ParticipantMatchesClinician(participantWithReference("https://fhir.example.org/base/Practitioner/prac-42"), clinicianID))
	})

	t.Run("Logical Identifier Only", func(t *testing.T) {
		participant := fhir_dto.EncounterParticipant{
			Individual: &fhir_dto.Reference{
				Identifier: fhir_dto.Identifier{System: "urn:hospital:staff", Value: "prac-42"},
			},
		}
		assert.True(t, ParticipantMatchesClinician(participant, clinicianID))
	})

	t.Run("Different Clinician", func(t *testing.T) {
		assert.False(t, ParticipantMatchesClinician(participantWithReference("Practitioner/prac-99"), clinicianID))
	})

	t.Run("ID As Substring Is Not A Match", func(t *testing.T) {
		assert.False(t, ParticipantMatchesClinician(participantWithReference("Practitioner/prac-421"), clinicianID))
	})

	t.Run("Empty Clinician ID Never Matches", func(t *testing.T) {
		assert.False(t, ParticipantMatchesClinician(participantWithReference("prac-42"), ""))
		assert.False(t, ParticipantMatchesClinician(participantWithReference(""), ""))
	})

	t.Run("Missing Individual", func(t *testing.T) {
		assert.False(t, ParticipantMatchesClinician(fhir_dto.EncounterParticipant{}, clinicianID))
	})
}

func TestEncounterHasClinicianParticipant(t *testing.T) {
	clinicianID := "prac-42"

	t.Run("Match Among Several Participants", func(t *testing.T) {
		encounter := fhir_dto.Encounter{
			Participant: []fhir_dto.EncounterParticipant{
				participantWithReference("Practitioner/other"),
				{},
				participantWithReference("Practitioner/prac-42"),
			},
		}
		assert.True(t, EncounterHasClinicianParticipant(encounter, clinicianID))
	})

	t.Run("No Participants", func(t *testing.T) {
		assert.False(t, EncounterHasClinicianParticipant(fhir_dto.Encounter{}, clinicianID))
	})

	t.Run("No Matching Participant", func(t *testing.T) {
		encounter := fhir_dto.Encounter{
			Participant: []fhir_dto.EncounterParticipant{
				participantWithReference("Practitioner/prac-1"),
				participantWithReference("Practitioner/prac-2"),
			},
		}
		assert.False(t, EncounterHasClinicianParticipant(encounter, clinicianID))
	})
}
