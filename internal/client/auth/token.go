// Package auth supplies bearer tokens for sealing requests. Tokens are
// issued elsewhere; this package only caches one on disk and refuses to
// offer it once expired. The sync engine treats a token failure as
// non-fatal and proceeds unauthenticated.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/capseal/capseal-go/internal/common"
	"github.com/capseal/capseal-go/internal/filex"
	"github.com/golang-jwt/jwt/v5"
)

// FileTokenSource reads a bearer token cached in a file. When the token is a
// JWT, its exp claim is checked locally (without signature verification —
// that is the server's job) so we avoid submitting with a token we already
// know is dead. Opaque tokens are passed through untouched.
type FileTokenSource struct {
	path string

	// now is a test seam.
	now func() time.Time
}

func NewFileTokenSource(path string) *FileTokenSource {
	return &FileTokenSource{path: path, now: time.Now}
}

// Token returns the cached token. It fails with common.ErrNoToken if no
// token is cached and common.ErrTokenExpired if the cached JWT's exp claim
// has passed.
func (s *FileTokenSource) Token(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", common.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", common.ErrNoToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// not a JWT; let the server decide
		return token, nil
	}

	exp, err := claims.GetExpirationTime()
	if err == nil && exp != nil && exp.Before(s.now()) {
		return "", common.ErrTokenExpired
	}

	return token, nil
}

// Save caches a token, replacing any previous one.
func (s *FileTokenSource) Save(token string) error {
	return filex.WriteFileAtomic(s.path, []byte(token+"\n"), 0o600)
}

// Clear removes the cached token. Clearing an absent token is a no-op.
func (s *FileTokenSource) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
