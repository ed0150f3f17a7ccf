package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"numeric":  "must be a number",
	"gt":       "must be greater than %s",
	"gte":      "must be greater than or equal to %s",
	"max":      "maximum at %s characters long",
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "cannot process the request"
	ErrClientSomethingWrongWithApplication = "something is wrong with the application, please contact the administrator"
	ErrClientServerLongRespond             = "server took too long to respond"
)

// Error messages for developers
const (
	ErrDevValidationFailed           = "Validation failed"
	ErrDevQueryParamValidationFailed = "Validation failed for query parameter: %s"
	ErrDevMissingRequestID           = "Request ID not found in request context"
	ErrDevCannotMarshalJSON          = "Failed to marshal data to JSON"
	ErrDevCannotParseJSON            = "Failed to parse JSON data"
	ErrDevCreateHTTPRequest          = "Failed to create HTTP request"
	ErrDevSendHTTPRequest            = "Failed to send HTTP request"
	ErrDevServerDeadlineExceeded     = "Server deadline exceeded"
	ErrDevStreamingUnsupported       = "Response writer does not support streaming"

	ErrDevGetFHIRResource    = "Failed to get FHIR resource: %s"
	ErrDevDecodeFHIRResponse = "Failed to decode FHIR response for resource: %s"

	ErrDevRedisSetData   = "Redis failed to set data"
	ErrDevRedisGetNoData = "Redis failed to get data with key: %s"
	ErrDevRedisDelete    = "Redis failed to delete data"

	ErrDevPolicyFetch = "Failed to fetch session duration policy"
	ErrDevPolicyParse = "Failed to parse session duration policy value"
)
