package contracts

import "context"

type SessionPolicyService interface {
	// GetSessionDurationMinutes returns the configured session window
	// length. It never fails: any fetch, parse, or cache problem falls
	// back to the canonical default.
	GetSessionDurationMinutes(ctx context.Context) int
}
