package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/capseal/capseal-go/internal/common"
)

const maxErrorBodyBytes = 4 << 10

// HTTPSealClient talks to the sealing service over HTTP:
//
//	POST {base}/seal    multipart: file, media_type, device_attestation?, location?
//	GET  {base}/health  reachability probe
type HTTPSealClient struct {
	baseURL     string
	http        *http.Client
	pingTimeout time.Duration
}

// NewHTTPSealClient returns a client for the given base URL. The per-request
// deadline is the caller's responsibility (the sync engine bounds each
// submission with a context timeout); pingTimeout caps reachability probes.
func NewHTTPSealClient(baseURL string, pingTimeout time.Duration) *HTTPSealClient {
	return &HTTPSealClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{},
		pingTimeout: pingTimeout,
	}
}

func (c *HTTPSealClient) Seal(ctx context.Context, req *SealRequest, token string) (*SealResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := fw.Write(req.Media); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := mw.WriteField("media_type", string(req.MediaType)); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if req.DeviceAttestation != "" {
		if err := mw.WriteField("device_attestation", req.DeviceAttestation); err != nil {
			return nil, fmt.Errorf("failed to build multipart body: %w", err)
		}
	}
	if req.Location != nil {
		loc, err := json.Marshal(req.Location)
		if err != nil {
			return nil, fmt.Errorf("failed to encode location: %w", err)
		}
		if err := mw.WriteField("location", string(loc)); err != nil {
			return nil, fmt.Errorf("failed to build multipart body: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/seal", &body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		httpReq.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(b))}
	}

	var sealResp SealResponse
	if err := json.NewDecoder(resp.Body).Decode(&sealResp); err != nil {
		return nil, fmt.Errorf("failed to decode seal response: %w", err)
	}
	return &sealResp, nil
}

func (c *HTTPSealClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.pingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health returned %d", common.ErrorUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *HTTPSealClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
