package service

import "errors"

// Sentinel errors for the failure taxonomy shared across services.
// Everything else is a wrapped descriptive error.
var (
	ErrAuthRequired = errors.New("authentication required")
	ErrAccessDenied = errors.New("access denied: insufficient permissions")
)
