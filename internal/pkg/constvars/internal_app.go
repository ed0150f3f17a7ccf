package constvars

type contextKey string

const (
	CONTEXT_REQUEST_ID_KEY           contextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY contextKey = "is_client_request_id"
)

const (
	// SessionDefaultDurationMinutes is the canonical fallback window
	// applied whenever the remote policy value cannot be fetched or
	// parsed. One default on every failure path.
	SessionDefaultDurationMinutes = 60

	// SessionResolveTimeoutInSeconds bounds one whole resolution
	// attempt, shared by the policy, encounter, and visit lookups.
	SessionResolveTimeoutInSeconds = 5

	// SessionPolicyCacheKey holds the cached session duration value.
	SessionPolicyCacheKey = "mediflow:policy:session-duration-minutes"
)
