package fhir_visits

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"mediflow-service/internal/app/contracts"
	"mediflow-service/internal/pkg/constvars"
	"mediflow-service/internal/pkg/exceptions"
	"mediflow-service/internal/pkg/fhir_dto"

	"go.uber.org/zap"
)

var (
	visitFhirClientInstance contracts.VisitFhirClient
	onceVisitFhirClient     sync.Once
)

type visitFhirClient struct {
	BaseUrl string
	Log     *zap.Logger
}

func NewVisitFhirClient(baseUrl string, logger *zap.Logger) contracts.VisitFhirClient {
	onceVisitFhirClient.Do(func() {
		client := &visitFhirClient{
			BaseUrl: baseUrl + "/" + constvars.ResourceEncounter,
			Log:     logger,
		}
		visitFhirClientInstance = client
	})
	return visitFhirClientInstance
}

func (c *visitFhirClient) FindAllByPatientID(ctx context.Context, patientID string) ([]fhir_dto.Encounter, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("visitFhirClient.FindAllByPatientID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	url := fmt.Sprintf("%s?%s=%s/%s&%s=%s",
		c.BaseUrl,
		constvars.FhirSearchParamSubject,
		constvars.ResourcePatient,
		patientID,
		constvars.FhirSearchParamTag,
		constvars.FhirTagVisit,
	)
	c.Log.Info("visitFhirClient.FindAllByPatientID built URL",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingFhirUrlKey, url),
	)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, url, nil)
	if err != nil {
		c.Log.Error("visitFhirClient.FindAllByPatientID error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		c.Log.Error("visitFhirClient.FindAllByPatientID error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			c.Log.Error("visitFhirClient.FindAllByPatientID error reading response body",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, exceptions.ErrGetFHIRResource(err, constvars.ResourceEncounter)
		}

		var outcome fhir_dto.OperationOutcome
		err = json.Unmarshal(bodyBytes, &outcome)
		if err != nil {
			c.Log.Error("visitFhirClient.FindAllByPatientID error unmarshaling outcome",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, exceptions.ErrGetFHIRResource(err, constvars.ResourceEncounter)
		}

		if len(outcome.Issue) > 0 {
			fhirErrorIssue := fmt.Errorf("%s", outcome.Issue[0].Diagnostics)
			c.Log.Error("visitFhirClient.FindAllByPatientID FHIR error",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(fhirErrorIssue),
			)
			return nil, exceptions.ErrGetFHIRResource(fhirErrorIssue, constvars.ResourceEncounter)
		}
		return nil, exceptions.ErrGetFHIRResource(fmt.Errorf("unexpected status %d", resp.StatusCode), constvars.ResourceEncounter)
	}

	var bundle fhir_dto.FHIRBundle
	err = json.NewDecoder(resp.Body).Decode(&bundle)
	if err != nil {
		c.Log.Error("visitFhirClient.FindAllByPatientID error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceEncounter)
	}

	visits := make([]fhir_dto.Encounter, 0, len(bundle.Entry))
	for _, entry := range bundle.Entry {
		var visit fhir_dto.Encounter
		if err := json.Unmarshal(entry.Resource, &visit); err != nil {
			c.Log.Error("visitFhirClient.FindAllByPatientID error unmarshaling entry",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceEncounter)
		}
		visits = append(visits, visit)
	}

	c.Log.Info("visitFhirClient.FindAllByPatientID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingVisitCountKey, len(visits)),
	)
	return visits, nil
}
