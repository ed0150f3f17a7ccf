package contracts

import (
	"context"

	"mediflow-service/internal/pkg/fhir_dto"
)

type VisitFhirClient interface {
	// FindAllByPatientID returns the patient's visit records (resources
	// tagged "visit" in the encounter store), most recent first as the
	// backend orders them.
	FindAllByPatientID(ctx context.Context, patientID string) ([]fhir_dto.Encounter, error)
}
