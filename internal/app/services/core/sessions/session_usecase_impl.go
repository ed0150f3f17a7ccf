package sessions

import (
	"context"
	"sync"
	"time"

	"mediflow-service/internal/app/config"
	"mediflow-service/internal/app/contracts"
	"mediflow-service/internal/pkg/constvars"
	"mediflow-service/internal/pkg/dto/requests"
	"mediflow-service/internal/pkg/fhir_dto"

	"go.uber.org/zap"
)

var (
	sessionUsecaseInstance contracts.SessionUsecase
	onceSessionUsecase     sync.Once
)

type sessionUsecase struct {
	EncounterFhirClient contracts.EncounterFhirClient
	VisitFhirClient     contracts.VisitFhirClient
	PolicyService       contracts.SessionPolicyService
	InternalConfig      *config.InternalConfig
	Log                 *zap.Logger
}

func NewSessionUsecase(
	encounterFhirClient contracts.EncounterFhirClient,
	visitFhirClient contracts.VisitFhirClient,
	policyService contracts.SessionPolicyService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.SessionUsecase {
	onceSessionUsecase.Do(func() {
		usecase := &sessionUsecase{
			EncounterFhirClient: encounterFhirClient,
			VisitFhirClient:     visitFhirClient,
			PolicyService:       policyService,
			InternalConfig:      internalConfig,
			Log:                 logger,
		}
		sessionUsecaseInstance = usecase
	})
	return sessionUsecaseInstance
}

type visitLookup struct {
	visits []fhir_dto.Encounter
	err    error
}

// Resolve runs the resolution state machine: compute the session window,
// search recent encounters, keep the ones attributable to the clinician,
// gate them on the patient's open visit, and pick the most recently
// updated survivor. Every failure path lands on the safe default of
// "start a new consultation"; the whole attempt shares one deadline.
func (uc *sessionUsecase) Resolve(ctx context.Context, request *requests.ResolveSession) *contracts.ResolutionResult {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if request.PatientID == "" || request.ClinicianID == "" {
		uc.Log.Info("sessionUsecase.Resolve missing identity, no lookup attempted",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPatientIDKey, request.PatientID),
		)
		return uc.none("patient or clinician identity missing")
	}

	timeout := time.Duration(uc.InternalConfig.Session.ResolveTimeoutInSeconds) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	uc.Log.Info("sessionUsecase.Resolve called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
		zap.String(constvars.LoggingClinicianIDKey, request.ClinicianID),
	)

	// The visit lookup is independent of the session window, so it runs
	// alongside the policy fetch and encounter search under the same
	// deadline. The buffered channel lets the goroutine finish even if
	// the result is no longer wanted.
	visitCh := make(chan visitLookup, 1)
	go func() {
		visits, err := uc.VisitFhirClient.FindAllByPatientID(ctx, request.PatientID)
		visitCh <- visitLookup{visits: visits, err: err}
	}()

	durationMinutes := request.DurationMinutes
	if durationMinutes <= 0 {
		durationMinutes = uc.PolicyService.GetSessionDurationMinutes(ctx)
	}
	windowStart := time.Now().Add(-time.Duration(durationMinutes) * time.Minute)

	encounters, err := uc.EncounterFhirClient.Search(ctx, &requests.EncounterSearch{
		PatientID:    request.PatientID,
		UpdatedSince: windowStart,
		Tag:          constvars.FhirTagEncounter,
	})
	if err != nil {
		if ctx.Err() != nil {
			return uc.deadline(requestID)
		}
		uc.Log.Error("sessionUsecase.Resolve encounter search failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return &contracts.ResolutionResult{Outcome: contracts.OutcomeError, Reason: "encounter search failed"}
	}
	if len(encounters) == 0 {
		return uc.none("no encounters inside the session window")
	}

	candidates := uc.filterByClinician(requestID, encounters, request.ClinicianID)
	if len(candidates) == 0 {
		// A definite empty clinician match is a definite "no session for
		// this clinician" — no fallback to unattributed encounters.
		return uc.none("no encounter attributable to the clinician")
	}

	var lookup visitLookup
	select {
	case lookup = <-visitCh:
	case <-ctx.Done():
		return uc.deadline(requestID)
	}
	if lookup.err != nil {
		// Fail closed: without visit data, nothing may be resumed.
		uc.Log.Error("sessionUsecase.Resolve visit lookup failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(lookup.err),
		)
		return uc.none("visit lookup failed")
	}

	openVisit := firstOpenVisit(lookup.visits)
	if openVisit == nil {
		return uc.none("patient has no open visit")
	}

	gated := filterByOpenVisit(candidates, openVisit)
	if len(gated) == 0 {
		return uc.none("no candidate inside the open visit")
	}

	if ctx.Err() != nil {
		return uc.deadline(requestID)
	}

	selected := mostRecentlyUpdated(gated)
	uc.Log.Info("sessionUsecase.Resolve found resumable encounter",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEncounterIDKey, selected.ID),
		zap.String(constvars.LoggingVisitIDKey, openVisit.ID),
	)
	return &contracts.ResolutionResult{Outcome: contracts.OutcomeResumable, Encounter: selected}
}

func (uc *sessionUsecase) none(reason string) *contracts.ResolutionResult {
	return &contracts.ResolutionResult{Outcome: contracts.OutcomeNone, Reason: reason}
}

func (uc *sessionUsecase) deadline(requestID string) *contracts.ResolutionResult {
	uc.Log.Warn("sessionUsecase.Resolve deadline elapsed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return uc.none("resolution deadline elapsed")
}

// filterByClinician keeps the encounters with a participant matching the
// clinician. Identity filtering degrades OPEN: if the filter itself
// blows up on malformed participant data, every originally returned
// encounter stays a candidate rather than masking a real session.
func (uc *sessionUsecase) filterByClinician(requestID string, encounters []fhir_dto.Encounter, clinicianID string) (filtered []fhir_dto.Encounter) {
	defer func() {
		if r := recover(); r != nil {
			uc.Log.Warn("sessionUsecase.filterByClinician recovered, keeping all candidates",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Any("panic", r),
			)
			filtered = encounters
		}
	}()

	filtered = make([]fhir_dto.Encounter, 0, len(encounters))
	for _, encounter := range encounters {
		if EncounterHasClinicianParticipant(encounter, clinicianID) {
			filtered = append(filtered, encounter)
		}
	}
	return filtered
}

// firstOpenVisit picks the first visit with a start and no end, in
// backend order. Uniqueness of the open visit is not guaranteed by the
// data model; first-returned wins.
func firstOpenVisit(visits []fhir_dto.Encounter) *fhir_dto.Encounter {
	for i := range visits {
		if visits[i].IsOpen() {
			return &visits[i]
		}
	}
	return nil
}

// filterByOpenVisit keeps candidates sitting inside the open visit:
// the candidate is the visit resource itself, or it has started while
// the visit has no end date. This deliberately reproduces the
// reference heuristic rather than true interval containment.
func filterByOpenVisit(candidates []fhir_dto.Encounter, openVisit *fhir_dto.Encounter) []fhir_dto.Encounter {
	kept := make([]fhir_dto.Encounter, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID == openVisit.ID {
			kept = append(kept, candidate)
			continue
		}
		if candidate.HasStarted() && openVisit.Period.End == "" {
			kept = append(kept, candidate)
		}
	}
	return kept
}

// mostRecentlyUpdated selects the candidate with the latest update
// timestamp; ties keep the earlier one in backend order.
func mostRecentlyUpdated(candidates []fhir_dto.Encounter) *fhir_dto.Encounter {
	selected := &candidates[0]
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Meta.LastUpdated.After(selected.Meta.LastUpdated) {
			selected = &candidates[i]
		}
	}
	return selected
}
