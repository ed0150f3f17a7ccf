package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingMethodKey         = "method"
	LoggingEndpointKey       = "endpoint"
	LoggingRemoteAddrKey     = "remote_addr"
	LoggingUserAgentKey      = "user_agent"
	LoggingQueryKey          = "query"
	LoggingStatusCodeKey     = "status_code"
	LoggingDurationKey       = "duration"
	LoggingSuccessKey        = "success"
	LoggingFhirUrlKey        = "fhir_url"
	LoggingPatientIDKey      = "patient_id"
	LoggingClinicianIDKey    = "clinician_id"
	LoggingEncounterIDKey    = "encounter_id"
	LoggingVisitIDKey        = "visit_id"
	LoggingEncounterCountKey = "encounter_count"
	LoggingVisitCountKey     = "visit_count"
	LoggingDurationMinKey    = "duration_minutes"
	LoggingWindowStartKey    = "window_start"
	LoggingOutcomeKey        = "outcome"
	LoggingGenerationKey     = "generation"
)
