package models

// SyncedSeal is the durable receipt of a successful synchronization. Created
// exactly once, when a PendingCapture's sync succeeds; never mutated and
// never deleted by this subsystem.
type SyncedSeal struct {
	// SealID is the server-assigned identifier.
	SealID string

	// LocalID back-references the originating PendingCapture for audit.
	// The pending row itself no longer exists at this point.
	LocalID string

	// Fields echoed from the server response.
	Timestamp            int64
	TrustTier            string
	HasDeviceAttestation bool

	// Thumbnail is carried over from the capture so the UI keeps showing
	// the same preview.
	Thumbnail string

	// SyncedAt is the local completion timestamp, epoch milliseconds.
	SyncedAt int64
}
