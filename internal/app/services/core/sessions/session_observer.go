package sessions

import (
	"context"
	"sync"

	"mediflow-service/internal/app/contracts"
	"mediflow-service/internal/pkg/constvars"
	"mediflow-service/internal/pkg/dto/requests"
	"mediflow-service/internal/pkg/dto/responses"

	"go.uber.org/zap"
)

// SessionObserver keeps one tri-state view (resolving / resumable /
// none) current for an identity pair, re-resolving whenever the pair
// changes. Only the newest resolution attempt may publish its result:
// attempts are ordered by start, not completion, and an identity change
// cancels whatever is in flight. The caller is therefore never left
// looking at a decision attributable to a prior clinician.
type SessionObserver struct {
	log            *zap.Logger
	sessionUsecase contracts.SessionUsecase

	mu               sync.Mutex
	generation       uint64
	cancel           context.CancelFunc
	patientID        string
	clinicianID      string
	state            responses.SessionSnapshot
	subscribers      map[uint64]chan responses.SessionSnapshot
	nextSubscriberID uint64
	closed           bool
}

func NewSessionObserver(sessionUsecase contracts.SessionUsecase, logger *zap.Logger) *SessionObserver {
	return &SessionObserver{
		log:            logger,
		sessionUsecase: sessionUsecase,
		subscribers:    make(map[uint64]chan responses.SessionSnapshot),
	}
}

// SetIdentity switches the observer to a new patient/clinician pair and
// triggers a resolution. Setting the same pair again is a no-op; use
// Refetch to force a re-run.
func (o *SessionObserver) SetIdentity(patientID, clinicianID string) {
	o.mu.Lock()
	if o.patientID == patientID && o.clinicianID == clinicianID {
		o.mu.Unlock()
		return
	}
	o.patientID = patientID
	o.clinicianID = clinicianID
	o.mu.Unlock()

	o.startResolve()
}

// Refetch re-runs resolution for the current identity pair.
func (o *SessionObserver) Refetch() {
	o.startResolve()
}

// Snapshot returns the current state.
func (o *SessionObserver) Snapshot() responses.SessionSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Subscribe registers a state listener primed with the current state.
// The returned func unsubscribes and closes the channel. Slow listeners
// miss intermediate frames rather than blocking the observer.
func (o *SessionObserver) Subscribe() (<-chan responses.SessionSnapshot, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextSubscriberID
	o.nextSubscriberID++
	ch := make(chan responses.SessionSnapshot, 16)
	o.subscribers[id] = ch
	ch <- o.state

	return ch, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if sub, ok := o.subscribers[id]; ok {
			delete(o.subscribers, id)
			close(sub)
		}
	}
}

// Close cancels any in-flight resolution and closes all subscriber
// channels.
func (o *SessionObserver) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	for id, ch := range o.subscribers {
		delete(o.subscribers, id)
		close(ch)
	}
}

func (o *SessionObserver) startResolve() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.generation++
	generation := o.generation
	patientID := o.patientID
	clinicianID := o.clinicianID

	if patientID == "" || clinicianID == "" {
		// Identity incomplete: "no session", not "resolving". The prior
		// result is cleared immediately so it can never be shown against
		// the wrong clinician.
		o.state = responses.SessionSnapshot{}
		o.publishLocked()
		o.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.state = responses.SessionSnapshot{IsResolving: true}
	o.publishLocked()
	o.mu.Unlock()

	o.log.Info("sessionObserver resolution started",
		zap.Uint64(constvars.LoggingGenerationKey, generation),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.String(constvars.LoggingClinicianIDKey, clinicianID),
	)

	go func() {
		defer cancel()
		result := o.sessionUsecase.Resolve(ctx, &requests.ResolveSession{
			PatientID:   patientID,
			ClinicianID: clinicianID,
		})

		o.mu.Lock()
		defer o.mu.Unlock()
		if o.closed || o.generation != generation {
			// A newer attempt has started; this result is stale and is
			// discarded rather than raced against the newer one.
			o.log.Debug("sessionObserver stale resolution discarded",
				zap.Uint64(constvars.LoggingGenerationKey, generation),
			)
			return
		}

		snapshot := responses.SessionSnapshot{}
		if result.IsResumable() {
			snapshot.HasActiveSession = true
			snapshot.Encounter = result.Encounter
		}
		if result.Outcome == contracts.OutcomeError {
			snapshot.LastError = result.Reason
		}
		o.state = snapshot
		o.publishLocked()

		o.log.Info("sessionObserver resolution completed",
			zap.Uint64(constvars.LoggingGenerationKey, generation),
			zap.String(constvars.LoggingOutcomeKey, string(result.Outcome)),
		)
	}()
}

func (o *SessionObserver) publishLocked() {
	for _, ch := range o.subscribers {
		select {
		case ch <- o.state:
		default:
		}
	}
}
