// Package common contains shared constants and sentinel errors used across
// CapSeal components.
package common

// AuthorizationHeaderName is the HTTP header used to carry the bearer token
// on outbound sealing requests.
const AuthorizationHeaderName = "Authorization"

// SummaryStateKey is the metadata key under which the persisted sync summary
// is stored. It is fixed so that the summary survives reloads of the client.
const SummaryStateKey = "sync_summary"
