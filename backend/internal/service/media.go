package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/itchan-dev/wall/shared/domain"
	internal_errors "github.com/itchan-dev/wall/shared/errors"
	"github.com/itchan-dev/wall/shared/logger"
	"github.com/itchan-dev/wall/shared/middleware/metrics"
	"github.com/itchan-dev/wall/shared/utils"
	"github.com/itchan-dev/wall/shared/validation"
)

// maxParallelUploads bounds concurrent object storage calls per request.
const maxParallelUploads = 4

const keySuffixLen = 8

// ObjectStorage is a bucket of media objects addressed by opaque keys.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, keys []string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type MediaUploader interface {
	Upload(ctx context.Context, files []*domain.PendingFile) domain.ImageKeys
}

type Uploader struct {
	storage      ObjectStorage
	allowedMimes map[string]bool
	now          func() time.Time
}

func NewUploader(storage ObjectStorage, allowedMimeTypes []string) *Uploader {
	return &Uploader{
		storage:      storage,
		allowedMimes: validation.BuildAllowedMimeMap(allowedMimeTypes),
		now:          time.Now,
	}
}

// Upload stores every non-empty file under a fresh key. A file that fails is logged and skipped;
// the returned keys keep the input order of the files that were stored.
func (u *Uploader) Upload(ctx context.Context, files []*domain.PendingFile) domain.ImageKeys {
	stored := make([]domain.ImageKey, len(files))

	g := new(errgroup.Group)
	g.SetLimit(maxParallelUploads)
	for i, pf := range files {
		if pf.IsEmpty() {
			continue
		}
		g.Go(func() error {
			key, err := u.store(ctx, pf)
			metrics.MediaOpsTotal.WithLabelValues("upload", metrics.Result(err)).Inc()
			if err != nil {
				logger.Log.Warn("skipping attachment", "error", err)
				return nil
			}
			stored[i] = key
			return nil
		})
	}
	_ = g.Wait()

	keys := make(domain.ImageKeys, 0, len(files))
	for _, key := range stored {
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func (u *Uploader) store(ctx context.Context, pf *domain.PendingFile) (domain.ImageKey, error) {
	key := NewStorageKey(pf.Filename, u.now())
	if err := validation.InspectImage(pf, u.allowedMimes); err != nil {
		return "", &internal_errors.UploadError{Filename: pf.Filename, Key: key, Err: err}
	}
	if err := u.storage.Upload(ctx, key, pf.Data, pf.SizeBytes, pf.MimeType); err != nil {
		return "", &internal_errors.UploadError{Filename: pf.Filename, Key: key, Err: err}
	}
	return key, nil
}

// NewStorageKey builds "<unix millis>-<random>.<ext>". The extension is taken from the text after
// the last dot of filename and omitted when it is missing or not alphanumeric.
func NewStorageKey(filename string, now time.Time) domain.ImageKey {
	key := fmt.Sprintf("%d-%s", now.UnixMilli(), utils.GenerateRandomString(keySuffixLen, utils.Base36))
	if ext := fileExtension(filename); ext != "" {
		key += "." + ext
	}
	return key
}

func fileExtension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return ""
	}
	ext := strings.ToLower(filename[i+1:])
	for _, r := range ext {
		if !strings.ContainsRune(utils.Base36, r) {
			return ""
		}
	}
	return ext
}
