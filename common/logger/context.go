package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within
// a context. Fields flow through context enrichment, so request-scoped
// business context (workspace_id, user_id, ...) shows up in every log
// statement underneath without each call site repeating it.
type LogFields struct {
	WorkspaceID  *int64  // Tenant boundary the request operates in
	UserID       *int64  // Authenticated principal
	ChallengeID  *int64  // Challenge being read or mutated
	EnrollmentID *int64  // Enrollment being read or mutated
	SessionID    *int64  // Session backing the request
	Slug         *string // Workspace slug from the route
	Component    string  // Component name (e.g., "changemaker.service.enrollment")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking
// precedence. Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.WorkspaceID != nil {
		result.WorkspaceID = next.WorkspaceID
	}
	if next.UserID != nil {
		result.UserID = next.UserID
	}
	if next.ChallengeID != nil {
		result.ChallengeID = next.ChallengeID
	}
	if next.EnrollmentID != nil {
		result.EnrollmentID = next.EnrollmentID
	}
	if next.SessionID != nil {
		result.SessionID = next.SessionID
	}
	if next.Slug != nil {
		result.Slug = next.Slug
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{UserID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}
