package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	"github.com/capseal/capseal-go/internal/client/models"
	"github.com/capseal/capseal-go/internal/client/repositories/captures"
	"github.com/capseal/capseal-go/internal/client/repositories/seals"
	"github.com/capseal/capseal-go/internal/client/thumbnail"
	"github.com/capseal/capseal-go/internal/common"
	"github.com/capseal/capseal-go/internal/logging"
	"github.com/google/uuid"
)

// AddOptions carries the optional admission inputs.
type AddOptions struct {
	// MimeType overrides the type guessed from the filename extension.
	MimeType          string
	Location          *models.Location
	DeviceAttestation string
}

// CaptureService admits raw media into the durable queue and exposes the
// read/mutation surface consumers use against it.
type CaptureService interface {
	// Add validates and persists a new pending capture, returning its
	// local id. Admission is all-or-nothing: on error no record exists.
	Add(ctx context.Context, blob []byte, filename string, mediaType models.MediaType, opts AddOptions) (string, error)

	Get(ctx context.Context, localID string) (*models.PendingCapture, error)
	List(ctx context.Context) ([]*models.PendingCapture, error)
	ListSeals(ctx context.Context) ([]*models.SyncedSeal, error)

	// Delete removes a single capture. Deleting a missing capture is a
	// no-op; deleting one that is currently syncing is refused.
	Delete(ctx context.Context, localID string) error

	// Clear removes every capture that is not currently syncing.
	Clear(ctx context.Context) error

	PendingCount(ctx context.Context) (int, error)
	Summary(ctx context.Context) (models.SyncSummary, error)
}

// ErrorSyncInProgress is returned when a deletion targets a capture that the
// sync engine currently holds.
var ErrorSyncInProgress = errors.New("capture is being synced")

type captureService struct {
	captures  captures.Repository
	seals     seals.Repository
	summary   *SummaryStore
	thumbs    *thumbnail.Generator
	extractor thumbnail.FrameExtractor
	log       logging.Logger

	// now is a test seam.
	now func() time.Time
}

func NewCaptureService(
	capturesRepo captures.Repository,
	sealsRepo seals.Repository,
	summary *SummaryStore,
	thumbs *thumbnail.Generator,
	extractor thumbnail.FrameExtractor,
	log logging.Logger,
) CaptureService {
	return &captureService{
		captures:  capturesRepo,
		seals:     sealsRepo,
		summary:   summary,
		thumbs:    thumbs,
		extractor: extractor,
		log:       log,
		now:       time.Now,
	}
}

func (s *captureService) Add(ctx context.Context, blob []byte, filename string, mediaType models.MediaType, opts AddOptions) (string, error) {
	if len(blob) == 0 {
		return "", common.ErrorEmptyMedia
	}
	if !mediaType.Valid() {
		return "", fmt.Errorf("%w: %q", common.ErrorUnknownMediaType, mediaType)
	}

	hash := sha256.Sum256(blob)

	mimeType := opts.MimeType
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(filename))
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	c := &models.PendingCapture{
		LocalID:           uuid.NewString(),
		MediaData:         blob,
		Filename:          filename,
		MimeType:          mimeType,
		MediaType:         mediaType,
		FileSize:          int64(len(blob)),
		LocalHash:         hex.EncodeToString(hash[:]),
		Thumbnail:         s.makeThumbnail(ctx, blob, mimeType, mediaType),
		CapturedAt:        s.now().UnixMilli(),
		Location:          opts.Location,
		DeviceAttestation: opts.DeviceAttestation,
		Status:            models.StatusPending,
	}

	if err := s.captures.Add(ctx, c); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}

	if err := s.summary.RefreshCount(ctx); err != nil {
		s.log.Warn(ctx, "failed to refresh summary after admission", "error", err.Error())
	}

	s.log.Info(ctx, "capture queued", "local_id", c.LocalID, "media_type", string(mediaType), "size", c.FileSize)
	return c.LocalID, nil
}

// makeThumbnail is best-effort: any failure just yields an absent thumbnail.
func (s *captureService) makeThumbnail(ctx context.Context, blob []byte, mimeType string, mediaType models.MediaType) string {
	var thumb string
	var err error

	switch mediaType {
	case models.MediaTypeImage:
		thumb, err = s.thumbs.FromImage(blob)
	case models.MediaTypeVideo:
		thumb, err = s.thumbs.FromVideo(blob, mimeType, s.extractor)
	case models.MediaTypeAudio:
		// audio never gets a preview
		return ""
	}

	if err != nil {
		s.log.Debug(ctx, "thumbnail skipped", "reason", err.Error())
		return ""
	}
	return thumb
}

func (s *captureService) Get(ctx context.Context, localID string) (*models.PendingCapture, error) {
	return s.captures.GetByLocalID(ctx, localID)
}

func (s *captureService) List(ctx context.Context) ([]*models.PendingCapture, error) {
	return s.captures.GetAll(ctx)
}

func (s *captureService) ListSeals(ctx context.Context) ([]*models.SyncedSeal, error) {
	return s.seals.GetAll(ctx)
}

func (s *captureService) Delete(ctx context.Context, localID string) error {
	rec, err := s.captures.GetByLocalID(ctx, localID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if rec.Status == models.StatusSyncing {
		return ErrorSyncInProgress
	}

	if err := s.captures.DeleteByLocalID(ctx, localID); err != nil {
		return err
	}
	return s.summary.RefreshCount(ctx)
}

func (s *captureService) Clear(ctx context.Context) error {
	eligible, err := s.captures.GetByStatus(ctx, models.StatusPending, models.StatusFailed)
	if err != nil {
		return err
	}
	for _, rec := range eligible {
		if err := s.captures.DeleteByLocalID(ctx, rec.LocalID); err != nil {
			return err
		}
	}
	return s.summary.RefreshCount(ctx)
}

func (s *captureService) PendingCount(ctx context.Context) (int, error) {
	return s.captures.Count(ctx, queueStatuses...)
}

func (s *captureService) Summary(ctx context.Context) (models.SyncSummary, error) {
	return s.summary.Load(ctx)
}
