package models

// SyncSummary is a small cross-restart projection of queue state, persisted
// separately from the full record store so consumers can render instantly.
// It is a cache refreshed after every admission, deletion and sync
// completion — never the source of truth. PendingCount must always be
// reconcilable with count(pending|syncing|failed) in the store.
type SyncSummary struct {
	PendingCount  int    `json:"pending_count"`
	LastSyncAt    *int64 `json:"last_sync_at"`
	LastSyncError string `json:"last_sync_error,omitempty"`
}
