package sessions

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"mediflow-service/internal/app/contracts"
	"mediflow-service/internal/pkg/constvars"
	"mediflow-service/internal/pkg/dto/requests"
	"mediflow-service/internal/pkg/dto/responses"
	"mediflow-service/internal/pkg/exceptions"
	"mediflow-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type SessionController struct {
	Log            *zap.Logger
	SessionUsecase contracts.SessionUsecase
}

func NewSessionController(logger *zap.Logger, sessionUsecase contracts.SessionUsecase) *SessionController {
	return &SessionController{
		Log:            logger,
		SessionUsecase: sessionUsecase,
	}
}

// ResolveSession answers the resume-or-start-new question for one
// patient/clinician pair. "No session" is a well-formed answer, not an
// error: missing or unknown identities resolve to has_active_session
// false with status 200.
func (ctrl *SessionController) ResolveSession(w http.ResponseWriter, r *http.Request) {
	request := &requests.ResolveSession{
		PatientID:   r.URL.Query().Get("patient_id"),
		ClinicianID: r.URL.Query().Get("clinician_id"),
	}

	if durationStr := r.URL.Query().Get("duration_minutes"); durationStr != "" {
		duration, err := strconv.Atoi(durationStr)
		if err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrQueryParamValidation(err, "duration_minutes"))
			return
		}
		request.DurationMinutes = duration
	}

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result := ctrl.SessionUsecase.Resolve(ctx, request)

	response := responses.SessionResolution{
		HasActiveSession: result.IsResumable(),
		Encounter:        result.Encounter,
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResolveSessionSuccessMessage, response)
}

// WatchSession streams observer state frames over SSE until the client
// disconnects. Each frame is the full snapshot; the client keeps only
// the latest one.
func (ctrl *SessionController) WatchSession(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrStreamingUnsupported(nil))
		return
	}

	patientID := r.URL.Query().Get("patient_id")
	clinicianID := r.URL.Query().Get("clinician_id")

	w.Header().Set(constvars.HeaderContentType, constvars.MIMETextEventStream)
	w.Header().Set(constvars.HeaderCacheControl, "no-cache")
	w.Header().Set(constvars.HeaderConnection, "keep-alive")
	w.WriteHeader(constvars.StatusOK)

	observer := NewSessionObserver(ctrl.SessionUsecase, ctrl.Log)
	defer observer.Close()

	frames, unsubscribe := observer.Subscribe()
	defer unsubscribe()

	observer.SetIdentity(patientID, clinicianID)

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, open := <-frames:
			if !open {
				return
			}
			payload, err := json.Marshal(snapshot)
			if err != nil {
				ctrl.Log.Error("sessionController.WatchSession marshal frame failed",
					zap.Error(err),
				)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func (ctrl *SessionController) Health(w http.ResponseWriter, r *http.Request) {
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.HealthCheckSuccessMessage, nil)
}
