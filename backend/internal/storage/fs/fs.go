// Package fs keeps media objects on local disk. Signed links point back at the API,
// which checks the HMAC and expiry before serving the file.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/itchan-dev/wall/shared/utils"
)

// ErrBadKey is returned for keys that would escape the storage root.
var ErrBadKey = errors.New("invalid storage key")

// ErrBadSignature is returned for forged or expired links.
var ErrBadSignature = errors.New("invalid or expired link")

type Storage struct {
	rootPath   string
	signingKey []byte
	baseURL    string
	now        func() time.Time
}

// New creates the bucket directory under rootPath. baseURL is the public prefix of the media route, e.g. "/media".
func New(rootPath, bucket, baseURL string, signingKey []byte) (*Storage, error) {
	p := filepath.Join(filepath.Clean(rootPath), bucket)
	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage directory %s: %w", p, err)
	}
	return &Storage{rootPath: p, signingKey: signingKey, baseURL: baseURL, now: time.Now}, nil
}

func (s *Storage) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	return filepath.Join(s.rootPath, key), nil
}

// Upload writes data under key. A partially written file is removed on failure.
func (s *Storage) Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dst, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}

	_, copyErr := io.Copy(dst, data)
	closeErr := dst.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(fullPath)
		return fmt.Errorf("failed to write file data: %w", errors.Join(copyErr, closeErr))
	}
	return nil
}

// Remove deletes every key. Already missing files are not an error.
func (s *Storage) Remove(ctx context.Context, keys []string) error {
	var errs []error
	for _, key := range keys {
		fullPath, err := s.path(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Storage) signature(key string, expires int64) string {
	return utils.SignHMAC(s.signingKey, key+"|"+strconv.FormatInt(expires, 10))
}

// SignedURL returns a link valid for ttl. Keys that don't exist fail to resolve.
func (s *Storage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(fullPath); err != nil {
		return "", fmt.Errorf("stat %s: %w", key, err)
	}

	expires := s.now().Add(ttl).Unix()
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("sig", s.signature(key, expires))
	return s.baseURL + "/" + url.PathEscape(key) + "?" + q.Encode(), nil
}

// Open checks a signed link's parameters and opens the file it grants.
func (s *Storage) Open(key, expiresParam, sig string) (*os.File, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return nil, err
	}
	expires, err := strconv.ParseInt(expiresParam, 10, 64)
	if err != nil || s.now().Unix() > expires {
		return nil, ErrBadSignature
	}
	if !utils.VerifyHMAC(s.signingKey, key+"|"+expiresParam, sig) {
		return nil, ErrBadSignature
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("media not found: %w", err)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}
