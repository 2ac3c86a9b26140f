package service

import "errors"

// Service-level failure taxonomy. Handlers translate these to status codes;
// nothing below the HTTP layer ever produces a transport value.
var (
	// ErrValidation marks malformed input (empty title, bad slug, unknown
	// enrollment status). Wrapped with a detail message at the call site.
	ErrValidation = errors.New("validation failed")

	// ErrAccessDenied marks an operation that would cross a workspace
	// boundary, e.g. enrolling a user who belongs to another workspace.
	ErrAccessDenied = errors.New("access denied")

	// ErrNotMember means the principal is authenticated but does not belong
	// to the target workspace.
	ErrNotMember = errors.New("not a member of this workspace")

	// ErrAdminRequired means the principal is a member but lacks the ADMIN
	// role in the target workspace.
	ErrAdminRequired = errors.New("admin privileges required")

	ErrWorkspaceNotFound = errors.New("workspace not found")

	ErrSlugTaken = errors.New("workspace slug already taken")

	// ErrInvalidPrincipal marks a sync attempt with missing external id or
	// email.
	ErrInvalidPrincipal = errors.New("invalid principal data")

	// ErrSyncConflict surfaces a uniqueness violation during principal sync,
	// e.g. the email already belongs to a different external identity.
	ErrSyncConflict = errors.New("principal sync conflict")
)
