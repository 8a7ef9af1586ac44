// Package models defines client-side data models used by the CapSeal CLI.
package models

// MediaType classifies a captured file.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeAudio MediaType = "audio"
)

// Valid reports whether mt is one of the recognized media kinds.
func (mt MediaType) Valid() bool {
	switch mt {
	case MediaTypeImage, MediaTypeVideo, MediaTypeAudio:
		return true
	}
	return false
}

// CaptureStatus is the sync state of a pending capture. Only the sync engine
// mutates it.
type CaptureStatus string

const (
	StatusPending CaptureStatus = "pending"
	StatusSyncing CaptureStatus = "syncing"
	StatusFailed  CaptureStatus = "failed"
)

// Location is an optional capture position.
type Location struct {
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Altitude *float64 `json:"altitude,omitempty"`
}

// PendingCapture is a capture awaiting (or having failed) synchronization.
// Media and descriptive fields are immutable after admission; only the sync
// bookkeeping fields (Status, SyncAttempts, LastSyncAttempt, ErrorMessage)
// change over the record's lifetime.
type PendingCapture struct {
	// LocalID is the client-generated UUID, stable for the record's
	// lifetime and used as the single-flight key.
	LocalID string

	// MediaData is the raw binary payload of the captured file.
	MediaData []byte

	Filename  string
	MimeType  string
	MediaType MediaType
	FileSize  int64

	// LocalHash is the SHA-256 hex digest computed at admission time,
	// before any network round-trip.
	LocalHash string

	// Thumbnail is an optional base64-encoded JPEG preview. Best-effort;
	// absent for audio and for oversized sources.
	Thumbnail string

	// CapturedAt is the capture timestamp in epoch milliseconds. Records
	// are ordered by it, descending.
	CapturedAt int64

	Location          *Location
	DeviceAttestation string

	Status CaptureStatus

	// SyncAttempts counts every attempt, successful or not. It never
	// decreases, including across retries.
	SyncAttempts int

	// LastSyncAttempt is the epoch-millisecond timestamp of the most
	// recent attempt, zero before the first one.
	LastSyncAttempt int64

	// ErrorMessage is set only while Status is failed and cleared when a
	// new attempt starts.
	ErrorMessage string
}
