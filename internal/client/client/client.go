package client

import (
	"context"

	"github.com/capseal/capseal-go/internal/client/models"
)

// SealRequest is one media submission to the sealing service.
type SealRequest struct {
	Media             []byte
	Filename          string
	MediaType         models.MediaType
	DeviceAttestation string
	Location          *models.Location
}

// SealResponse is the server's receipt for a sealed capture.
type SealResponse struct {
	SealID               string `json:"seal_id"`
	Timestamp            int64  `json:"timestamp"`
	TrustTier            string `json:"trust_tier"`
	HasDeviceAttestation bool   `json:"has_device_attestation"`
}

// SealClient is the transport boundary to the remote sealing service. The
// sync engine treats it as a black box: submissions either return a receipt
// or an error; retry policy lives entirely on our side.
type SealClient interface {
	// Seal submits a capture. token may be empty, in which case the
	// request is sent unauthenticated and the server decides whether to
	// accept it.
	Seal(ctx context.Context, req *SealRequest, token string) (*SealResponse, error)

	// Ping probes service reachability.
	Ping(ctx context.Context) error

	Close() error
}
