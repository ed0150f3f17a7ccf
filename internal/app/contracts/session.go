package contracts

import (
	"context"

	"mediflow-service/internal/pkg/dto/requests"
	"mediflow-service/internal/pkg/fhir_dto"
)

type ResolutionOutcome string

const (
	// OutcomeResumable means an open encounter attributable to the
	// clinician sits inside the patient's active visit.
	OutcomeResumable ResolutionOutcome = "resumable"
	// OutcomeNone means a new consultation must be started.
	OutcomeNone ResolutionOutcome = "none"
	// OutcomeError records a failure that the boundary maps to the safe
	// default (start new); it never blocks the clinician's workflow.
	OutcomeError ResolutionOutcome = "error"
)

// ResolutionResult is the only value that crosses the resolution core's
// output boundary.
type ResolutionResult struct {
	Outcome   ResolutionOutcome
	Encounter *fhir_dto.Encounter
	Reason    string
}

func (r *ResolutionResult) IsResumable() bool {
	return r.Outcome == OutcomeResumable && r.Encounter != nil
}

type SessionUsecase interface {
	// Resolve decides, under one shared deadline, whether the clinician
	// has a resumable encounter for the patient. It never returns a Go
	// error: failures are folded into the result per the fail-safe
	// policy.
	Resolve(ctx context.Context, request *requests.ResolveSession) *ResolutionResult
}
