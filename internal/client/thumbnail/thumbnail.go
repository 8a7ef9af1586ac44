// Package thumbnail produces small base64-encoded JPEG previews for captured
// media. Generation is strictly best-effort: oversized sources are skipped to
// bound CPU and memory cost, and callers are expected to tolerate an absent
// thumbnail.
package thumbnail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/png"
)

const (
	// DefaultMaxSourceBytes is the size ceiling above which thumbnail
	// generation is skipped.
	DefaultMaxSourceBytes = 10 << 20

	defaultMaxEdge = 320
	jpegQuality    = 70
)

// FrameExtractor pulls the first decodable frame out of a video payload.
// No implementation ships with the client; platforms that have a decoding
// pipeline can inject one.
type FrameExtractor interface {
	FirstFrame(data []byte, mimeType string) (image.Image, error)
}

// Generator downscales media into bounded-edge JPEG previews.
type Generator struct {
	// MaxSourceBytes caps the source size; larger payloads are skipped
	// (empty result, no error).
	MaxSourceBytes int64

	// MaxEdge bounds the longer side of the thumbnail in pixels.
	MaxEdge int
}

func NewGenerator(maxSourceBytes int64) *Generator {
	if maxSourceBytes <= 0 {
		maxSourceBytes = DefaultMaxSourceBytes
	}
	return &Generator{MaxSourceBytes: maxSourceBytes, MaxEdge: defaultMaxEdge}
}

// FromImage decodes data and returns a base64 JPEG preview. An oversized
// source yields ("", nil); a decode failure yields an error the caller may
// treat as a skip.
func (g *Generator) FromImage(data []byte) (string, error) {
	if int64(len(data)) > g.MaxSourceBytes {
		return "", nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	return g.encode(img)
}

// FromVideo extracts the first frame via the injected extractor and encodes
// it like an image. A nil extractor means the capability is absent: the
// thumbnail is skipped silently, mirroring the size-ceiling behavior.
func (g *Generator) FromVideo(data []byte, mimeType string, x FrameExtractor) (string, error) {
	if x == nil {
		return "", nil
	}
	if int64(len(data)) > g.MaxSourceBytes {
		return "", nil
	}

	img, err := x.FirstFrame(data, mimeType)
	if err != nil {
		return "", fmt.Errorf("failed to extract frame: %w", err)
	}

	return g.encode(img)
}

func (g *Generator) encode(img image.Image) (string, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return "", fmt.Errorf("empty image %dx%d", w, h)
	}

	maxEdge := g.MaxEdge
	if maxEdge <= 0 {
		maxEdge = defaultMaxEdge
	}

	// preserve aspect ratio, never upscale
	tw, th := w, h
	if w > maxEdge || h > maxEdge {
		if w >= h {
			tw = maxEdge
			th = h * maxEdge / w
		} else {
			th = maxEdge
			tw = w * maxEdge / h
		}
		if tw < 1 {
			tw = 1
		}
		if th < 1 {
			th = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
