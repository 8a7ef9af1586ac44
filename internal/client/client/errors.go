package client

import (
	"fmt"
	"net/http"

	"github.com/capseal/capseal-go/internal/common"
)

// APIError is a non-2xx reply from the sealing service. Message carries the
// plain-text response body when the server sent one; the sync engine records
// it verbatim on the failed capture.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("sealing request failed with status %d", e.StatusCode)
}

// Unwrap lets callers match auth rejections with errors.Is without losing
// the server's own message.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return common.ErrorUnauthorized
	}
	return nil
}
