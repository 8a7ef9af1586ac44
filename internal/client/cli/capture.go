package cli

import (
	"context"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/capseal/capseal-go/internal/client/models"
	"github.com/capseal/capseal-go/internal/client/services"
)

// mediaTypeFor guesses the capture's media type from the filename extension.
func mediaTypeFor(filename string) (models.MediaType, string) {
	mimeType := mime.TypeByExtension(filepath.Ext(filename))

	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return models.MediaTypeImage, mimeType
	case strings.HasPrefix(mimeType, "video/"):
		return models.MediaTypeVideo, mimeType
	case strings.HasPrefix(mimeType, "audio/"):
		return models.MediaTypeAudio, mimeType
	}
	return "", mimeType
}

func (a *App) Capture(ctx context.Context, path string) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	filename := filepath.Base(path)
	mediaType, mimeType := mediaTypeFor(filename)
	if mediaType == "" {
		log.Printf("Error: cannot tell media type of %s", filename)
		return fmt.Errorf("unknown media type for %s", filename)
	}

	id, err := a.captures.Add(ctx, blob, filename, mediaType, services.AddOptions{MimeType: mimeType})
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Printf("Queued %s as %s\n", filename, id)
	return nil
}
