package contracts

import (
	"context"

	"mediflow-service/internal/pkg/dto/requests"
	"mediflow-service/internal/pkg/fhir_dto"
)

type EncounterFhirClient interface {
	// Search returns the patient's encounters updated inside the given
	// window, optionally restricted to a tag. An empty result is not an
	// error; transport and decode failures are.
	Search(ctx context.Context, request *requests.EncounterSearch) ([]fhir_dto.Encounter, error)
}
