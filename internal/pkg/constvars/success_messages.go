package constvars

const (
	ResolveSessionSuccessMessage = "Successfully resolved encounter session"
	HealthCheckSuccessMessage    = "Service is healthy"
)

const ResponseUnknown = "unknown"
