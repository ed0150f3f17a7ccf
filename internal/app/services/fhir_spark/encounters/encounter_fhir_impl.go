package fhir_encounters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"mediflow-service/internal/app/contracts"
	"mediflow-service/internal/pkg/constvars"
	"mediflow-service/internal/pkg/dto/requests"
	"mediflow-service/internal/pkg/exceptions"
	"mediflow-service/internal/pkg/fhir_dto"

	"go.uber.org/zap"
)

var (
	encounterFhirClientInstance contracts.EncounterFhirClient
	onceEncounterFhirClient     sync.Once
)

type encounterFhirClient struct {
	BaseUrl string
	Log     *zap.Logger
}

func NewEncounterFhirClient(baseUrl string, logger *zap.Logger) contracts.EncounterFhirClient {
	onceEncounterFhirClient.Do(func() {
		client := &encounterFhirClient{
			BaseUrl: baseUrl + "/" + constvars.ResourceEncounter,
			Log:     logger,
		}
		encounterFhirClientInstance = client
	})
	return encounterFhirClientInstance
}

func (c *encounterFhirClient) Search(ctx context.Context, request *requests.EncounterSearch) ([]fhir_dto.Encounter, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("encounterFhirClient.Search called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
		zap.Time(constvars.LoggingWindowStartKey, request.UpdatedSince),
	)

	queryParams := fmt.Sprintf("%s=%s/%s",
		constvars.FhirSearchParamSubject,
		constvars.ResourcePatient,
		request.PatientID,
	)
	if !request.UpdatedSince.IsZero() {
		queryParams += fmt.Sprintf("&%s=ge%s",
			constvars.FhirSearchParamLastUpdated,
			request.UpdatedSince.UTC().Format(time.RFC3339),
		)
	}
	if request.Tag != "" {
		queryParams += fmt.Sprintf("&%s=%s", constvars.FhirSearchParamTag, request.Tag)
	}

	url := fmt.Sprintf("%s?%s", c.BaseUrl, queryParams)
	c.Log.Info("encounterFhirClient.Search built URL",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingFhirUrlKey, url),
	)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, url, nil)
	if err != nil {
		c.Log.Error("encounterFhirClient.Search error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		c.Log.Error("encounterFhirClient.Search error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			c.Log.Error("encounterFhirClient.Search error reading response body",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, exceptions.ErrGetFHIRResource(err, constvars.ResourceEncounter)
		}

		var outcome fhir_dto.OperationOutcome
		err = json.Unmarshal(bodyBytes, &outcome)
		if err != nil {
			c.Log.Error("encounterFhirClient.Search error unmarshaling outcome",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, exceptions.ErrGetFHIRResource(err, constvars.ResourceEncounter)
		}

		if len(outcome.Issue) > 0 {
			fhirErrorIssue := fmt.Errorf("%s", outcome.Issue[0].Diagnostics)
			c.Log.Error("encounterFhirClient.Search FHIR error",
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
		c.Log.Error("encounterFhirClient.Search error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceEncounter)
	}

	encounters := make([]fhir_dto.Encounter, 0, len(bundle.Entry))
	for _, entry := range bundle.Entry {
		var encounter fhir_dto.Encounter
		if err := json.Unmarshal(entry.Resource, &encounter); err != nil {
			c.Log.Error("encounterFhirClient.Search error unmarshaling entry",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceEncounter)
		}
		encounters = append(encounters, encounter)
	}

	c.Log.Info("encounterFhirClient.Search succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingEncounterCountKey, len(encounters)),
	)
	return encounters, nil
}
