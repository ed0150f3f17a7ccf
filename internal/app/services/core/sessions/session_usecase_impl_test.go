package sessions

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"mediflow-service/internal/app/config"
	"mediflow-service/internal/app/contracts"
	"mediflow-service/internal/pkg/dto/requests"
	"mediflow-service/internal/pkg/fhir_dto"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubEncounterClient struct {
	encounters []fhir_dto.Encounter
	err        error
	block      bool
	calls      int
	lastSearch *requests.EncounterSearch
}

func (s *stubEncounterClient) Search(ctx context.Context, request *requests.EncounterSearch) ([]fhir_dto.Encounter, error) {
	s.calls++
	s.lastSearch = request
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.encounters, s.err
}

type stubVisitClient struct {
	visits []fhir_dto.Encounter
	err    error
	calls  atomic.Int32
}

func (s *stubVisitClient) FindAllByPatientID(ctx context.Context, patientID string) ([]fhir_dto.Encounter, error) {
	s.calls.Add(1)
	return s.visits, s.err
}

type stubPolicyService struct {
	minutes int
	calls   int
}

func (s *stubPolicyService) GetSessionDurationMinutes(ctx context.Context) int {
	s.calls++
	return s.minutes
}

func newTestUsecase(enc *stubEncounterClient, vis *stubVisitClient, pol *stubPolicyService) *sessionUsecase {
	return &sessionUsecase{
		EncounterFhirClient: enc,
		VisitFhirClient:     vis,
		PolicyService:       pol,
		InternalConfig: &config.InternalConfig{
			Session: config.Session{ResolveTimeoutInSeconds: 5},
		},
		Log: zap.NewNop(),
	}
}

func encounterFor(id, clinicianRef string, lastUpdated time.Time) fhir_dto.Encounter {
	return fhir_dto.Encounter{
		ID:   id,
		Meta: fhir_dto.Meta{LastUpdated: lastUpdated},
		Participant: []fhir_dto.EncounterParticipant{
			{Individual: &fhir_dto.Reference{Reference: clinicianRef}},
		},
		Period: &fhir_dto.Period{Start: "2026-08-28T09:00:00Z"},
	}
}

func openVisit(id string) fhir_dto.Encounter {
	return fhir_dto.Encounter{
		ID:     id,
		Period: &fhir_dto.Period{Start: "2026-08-28T07:00:00Z"},
	}
}

func closedVisit(id string) fhir_dto.Encounter {
	return fhir_dto.Encounter{
		ID:     id,
		Period: &fhir_dto.Period{Start: "2026-08-28T07:00:00Z", End: "2026-08-28T08:30:00Z"},
	}
}

func TestSessionUsecaseResolve_MissingIdentity(t *testing.T) {
	cases := []struct {
		name    string
		request *requests.ResolveSession
	}{
		{"Missing Patient", &requests.ResolveSession{ClinicianID: "prac-1"}},
		{"Missing Clinician", &requests.ResolveSession{PatientID: "pat-1"}},
		{"Missing Both", &requests.ResolveSession{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enc := &stubEncounterClient{}
			vis := &stubVisitClient{}
			pol := &stubPolicyService{minutes: 60}
			uc := newTestUsecase(enc, vis, pol)

			result := uc.Resolve(context.Background(), tc.request)

			assert.Equal(t, contracts.OutcomeNone, result.Outcome)
			assert.False(t, result.IsResumable())
			assert.Zero(t, enc.calls, "no encounter lookup for an incomplete identity")
			assert.Zero(t, vis.calls.Load(), "no visit lookup for an incomplete identity")
			assert.Zero(t, pol.calls, "no policy lookup for an incomplete identity")
		})
	}
}

func TestSessionUsecaseResolve_ResumableEncounter(t *testing.T) {
	now := time.Now()
	enc := &stubEncounterClient{encounters: []fhir_dto.Encounter{
		encounterFor("enc-1", "Practitioner/prac-1", now.Add(-10*time.Minute)),
	}}
	vis := &stubVisitClient{visits: []fhir_dto.Encounter{openVisit("visit-1")}}
	pol := &stubPolicyService{minutes: 60}
	uc := newTestUsecase(enc, vis, pol)

	result := uc.Resolve(context.Background(), &requests.ResolveSession{PatientID: "pat-1", ClinicianID: "prac-1"})

	assert.True(t, result.IsResumable())
	assert.Equal(t, "enc-1", result.Encounter.ID)
	assert.Equal(t, 1, enc.calls)
	assert.Equal(t, "pat-1", enc.lastSearch.PatientID)
	assert.False(t, enc.lastSearch.UpdatedSince.IsZero())
}

func TestSessionUsecaseResolve_Idempotent(t *testing.T) {
	now := time.Now()
	enc := &stubEncounterClient{encounters: []fhir_dto.Encounter{
		encounterFor("enc-1", "Practitioner/prac-1", now.Add(-10*time.Minute)),
	}}
	vis := &stubVisitClient{visits: []fhir_dto.Encounter{openVisit("visit-1")}}
	pol := &stubPolicyService{minutes: 60}
	uc := newTestUsecase(enc, vis, pol)
	request := &requests.ResolveSession{PatientID: "pat-1", ClinicianID: "prac-1"}

	first := uc.Resolve(context.Background(), request)
	second := uc.Resolve(context.Background(), request)

	assert.Equal(t, first.Outcome, second.Outcome)
	assert.Equal(t, first.Encounter.ID, second.Encounter.ID)
}

func TestSessionUsecaseResolve_PicksMostRecentlyUpdatedMatch(t *testing.T) {
	now := time.Now()
	enc := &stubEncounterClient{encounters: []fhir_dto.Encounter{
		encounterFor("enc-old", "Practitioner/prac-1", now.Add(-40*time.Minute)),
		encounterFor("enc-other-clinician", "Practitioner/prac-2", now.Add(-1*time.Minute)),
		encounterFor("enc-new", "Practitioner/prac-1", now.Add(-5*time.Minute)),
	}}
	vis := &stubVisitClient{visits: []fhir_dto.Encounter{openVisit("visit-1")}}
	pol := &stubPolicyService{minutes: 60}
	uc := newTestUsecase(enc, vis, pol)

	result := uc.Resolve(context.Background(), &requests.ResolveSession{PatientID: "pat-1", ClinicianID: "prac-1"})

	assert.True(t, result.IsResumable())
	assert.Equal(t, "enc-new", result.Encounter.ID, "the other clinician's newer encounter must not win")
}

func TestSessionUsecaseResolve_NoVisitOpen(t *testing.T) {
	now := time.Now()
	enc := &stubEncounterClient{encounters: []fhir_dto.Encounter{
		encounterFor("enc-1", "Practitioner/prac-1", now.Add(-10*time.Minute)),
	}}
	pol := &stubPolicyService{minutes: 60}

	t.Run("Closed Visit", func(t *testing.T) {
		vis := &stubVisitClient{visits: []fhir_dto.Encounter{closedVisit("visit-1")}}
		uc := newTestUsecase(enc, vis, pol)

		result := uc.Resolve(context.Background(), &requests.ResolveSession{PatientID: "pat-1", ClinicianID: "prac-1"})

		assert.Equal(t, contracts.OutcomeNone, result.Outcome)
	})

	t.Run("No Visits At All", func(t *testing.T) {
		vis := &stubVisitClient{}
		uc := newTestUsecase(enc, vis, pol)

		result := uc.Resolve(context.Background(), &requests.ResolveSession{PatientID: "pat-1", ClinicianID: "prac-1"})

		assert.Equal(t, contracts.OutcomeNone, result.Outcome)
	})
}

func TestSessionUsecaseResolve_NoClinicianMatchHasNoFallback(t *testing.T) {
	now := time.Now()
	enc := &stubEncounterClient{encounters: []fhir_dto.Encounter{
		encounterFor("enc-1", "Practitioner/prac-9", now.Add(-10*time.Minute)),
	}}
	vis := &stubVisitClient{visits: []fhir_dto.Encounter{openVisit("visit-1")}}
	pol := &stubPolicyService{minutes: 60}
	uc := newTestUsecase(enc, vis, pol)

	result := uc.Resolve(context.Background(), &requests.ResolveSession{PatientID: "pat-1", ClinicianID: "prac-1"})

	assert.Equal(t, contracts.OutcomeNone, result.Outcome)
	assert.Nil(t, result.Encounter)
}

func TestSessionUsecaseResolve_VisitLookupFailureFailsClosed(t *testing.T) {
	now := time.Now()
	enc := &stubEncounterClient{encounters: []fhir_dto.Encounter{
		encounterFor("enc-1", "Practitioner/prac-1", now.Add(-10*time.Minute)),
	}}
	vis := &stubVisitClient{err: assert.AnError}
	pol := &stubPolicyService{minutes: 60}
	uc := newTestUsecase(enc, vis, pol)

	result := uc.Resolve(context.Background(), &requests.ResolveSession{PatientID: "pat-1", ClinicianID: "prac-1"})

	assert.Equal(t, contracts.OutcomeNone, result.Outcome)
	assert.False(t, result.IsResumable())
}

func TestSessionUsecaseResolve_EncounterSearchFailure(t *testing.T) {
	enc := &stubEncounterClient{err: assert.AnError}
	vis := &stubVisitClient{visits: []fhir_dto.Encounter{openVisit("visit-1")}}
	pol := &stubPolicyService{minutes: 60}
	uc := newTestUsecase(enc, vis, pol)

	result := uc.Resolve(context.Background(), &requests.ResolveSession{PatientID: "pat-1", ClinicianID: "prac-1"})

	assert.Equal(t, contracts.OutcomeError, result.Outcome)
	assert.False(t, result.IsResumable(), "an error must still read as start-new at the boundary")
}

func TestSessionUsecaseResolve_PolicyLookup(t *testing.T) {
	now := time.Now()

	t.Run("Zero Override Asks Policy", func(t *testing.T) {
		enc := &stubEncounterClient{encounters: []fhir_dto.Encounter{
			encounterFor("enc-1", "Practitioner/prac-1", now.Add(-10*time.Minute)),
		}}
		vis := &stubVisitClient{visits: []fhir_dto.Encounter{openVisit("visit-1")}}
		pol := &stubPolicyService{minutes: 90}
		uc := newTestUsecase(enc, vis, pol)

		result := uc.Resolve(context.Background(), &requests.ResolveSession{PatientID: "pat-1", ClinicianID: "prac-1"})

		assert.True(t, result.IsResumable())
		assert.Equal(t, 1, pol.calls)
	})

	t.Run("Positive Override Skips Policy", func(t *testing.T) {
		enc := &stubEncounterClient{encounters: []fhir_dto.Encounter{
			encounterFor("enc-1", "Practitioner/prac-1", now.Add(-10*time.Minute)),
		}}
		vis := &stubVisitClient{visits: []fhir_dto.Encounter{openVisit("visit-1")}}
		pol := &stubPolicyService{minutes: 90}
		uc := newTestUsecase(enc, vis, pol)

		result := uc.Resolve(context.Background(), &requests.ResolveSession{
			PatientID:       "pat-1",
			ClinicianID:     "prac-1",
			DurationMinutes: 30,
		})

		assert.True(t, result.IsResumable())
		assert.Zero(t, pol.calls)
	})
}

func TestSessionUsecaseResolve_DeadlineElapsed(t *testing.T) {
	enc := &stubEncounterClient{block: true}
	vis := &stubVisitClient{visits: []fhir_dto.Encounter{openVisit("visit-1")}}
	pol := &stubPolicyService{minutes: 60}
	uc := newTestUsecase(enc, vis, pol)
	uc.InternalConfig.Session.ResolveTimeoutInSeconds = 1

	start := time.Now()
	result := uc.Resolve(context.Background(), &requests.ResolveSession{PatientID: "pat-1", ClinicianID: "prac-1"})

	assert.Equal(t, contracts.OutcomeNone, result.Outcome)
	assert.Less(t, time.Since(start), 3*time.Second, "resolution must finish close to its deadline")
}

func TestFirstOpenVisit(t *testing.T) {
	t.Run("First Open Wins", func(t *testing.T) {
		visits := []fhir_dto.Encounter{
			closedVisit("visit-1"),
			openVisit("visit-2"),
			openVisit("visit-3"),
		}
		got := firstOpenVisit(visits)
		assert.NotNil(t, got)
		assert.Equal(t, "visit-2", got.ID)
	})

	t.Run("None Open", func(t *testing.T) {
		assert.Nil(t, firstOpenVisit([]fhir_dto.Encounter{closedVisit("visit-1")}))
	})

	t.Run("Visit Without Start Is Not Open", func(t *testing.T) {
		assert.Nil(t, firstOpenVisit([]fhir_dto.Encounter{{ID: "visit-1", Period: &fhir_dto.Period{}}}))
	})
}

func TestFilterByOpenVisit(t *testing.T) {
	visit := openVisit("visit-1")

	t.Run("Candidate Is The Visit Itself", func(t *testing.T) {
		candidates := []fhir_dto.Encounter{{ID: "visit-1"}}
		kept := filterByOpenVisit(candidates, &visit)
		assert.Len(t, kept, 1)
	})

	t.Run("Started Candidate Inside Open Visit", func(t *testing.T) {
		candidates := []fhir_dto.Encounter{
			{ID: "enc-1", Period: &fhir_dto.Period{Start: "2026-08-28T09:00:00Z"}},
			{ID: "enc-2"},
		}
		kept := filterByOpenVisit(candidates, &visit)
		assert.Len(t, kept, 1)
		assert.Equal(t, "enc-1", kept[0].ID)
	})
}

func TestMostRecentlyUpdated(t *testing.T) {
	now := time.Now()

	t.Run("Latest Update Wins", func(t *testing.T) {
		candidates := []fhir_dto.Encounter{
			{ID: "enc-1", Meta: fhir_dto.Meta{LastUpdated: now.Add(-20 * time.Minute)}},
			{ID: "enc-2", Meta: fhir_dto.Meta{LastUpdated: now.Add(-5 * time.Minute)}},
			{ID: "enc-3", Meta: fhir_dto.Meta{LastUpdated: now.Add(-10 * time.Minute)}},
		}
		assert.Equal(t, "enc-2", mostRecentlyUpdated(candidates).ID)
	})

	t.Run("Ties Keep Backend Order", func(t *testing.T) {
		same := now.Add(-5 * time.Minute)
		candidates := []fhir_dto.Encounter{
			{ID: "enc-1", Meta: fhir_dto.Meta{LastUpdated: same}},
			{ID: "enc-2", Meta: fhir_dto.Meta{LastUpdated: same}},
		}
		assert.Equal(t, "enc-1", mostRecentlyUpdated(candidates).ID)
	})
}
