// Package common defines shared constants and sentinel errors used across
// CapSeal components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Admission-time errors: nothing durable was created.
	ErrorEmptyMedia       = errors.New("media payload is empty")
	ErrorUnknownMediaType = errors.New("unknown media type")
	ErrorStorage          = errors.New("storage error")

	// Transport-level errors.
	ErrorUnavailable  = errors.New("sealing service unavailable")
	ErrorUnauthorized = errors.New("unauthorized")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
	ErrNoToken      = errors.New("no cached token")
)
