package setup

import (
	"context"
	"fmt"

	"github.com/itchan-dev/wall/backend/internal/handler"
	"github.com/itchan-dev/wall/backend/internal/service"
	"github.com/itchan-dev/wall/backend/internal/storage/fs"
	"github.com/itchan-dev/wall/backend/internal/storage/pg"
	"github.com/itchan-dev/wall/backend/internal/storage/s3"
	"github.com/itchan-dev/wall/backend/internal/utils"
	"github.com/itchan-dev/wall/backend/internal/utils/captcha"
	"github.com/itchan-dev/wall/shared/config"
	"github.com/itchan-dev/wall/shared/jwt"
	"github.com/itchan-dev/wall/shared/logger"
	mw "github.com/itchan-dev/wall/shared/middleware"
)

// MediaRoutePrefix is where locally stored media is served from.
const MediaRoutePrefix = "/media"

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	warnMissingSecrets(cfg)

	storage, err := pg.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := storage.RunMigrations(ctx); err != nil {
		storage.Cleanup()
		return nil, err
	}

	objects, local, err := newObjectStorage(ctx, cfg)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}

	sessions := jwt.New(cfg.Private.SessionSecret)
	passwordHash, err := service.AdminPasswordHash(cfg.Private.AdminPassword, cfg.Private.AdminPasswordHash)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}

	validator := &utils.SubmissionValidator{
		NameMaxLen:    cfg.Public.NameMaxLen,
		MessageMaxLen: cfg.Public.MessageMaxLen,
	}
	recaptcha := captcha.New(cfg.Private.CaptchaSecret, cfg.Public.Captcha.VerifyURL, cfg.Public.Captcha.Timeout)
	uploader := service.NewUploader(objects, cfg.Public.AllowedImageMimeTypes)

	services := handler.Services{
		Intake:     service.NewIntake(storage, recaptcha, uploader, validator, cfg.Public.DefaultVisible),
		Query:      service.NewQuery(storage, objects, cfg.Public.SignedURLTTL),
		Moderation: service.NewModeration(storage, objects, validator),
		Auth:       service.NewAuth(passwordHash, sessions),
		Views:      service.NewViews(storage),
	}

	authMw := mw.NewAuth(sessions, cfg.Public.SecureCookies)

	var media handler.MediaOpener
	if local != nil {
		media = local
	}
	h := handler.New(cfg, services, authMw, media, storage)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: authMw,
	}, nil
}

// newObjectStorage returns the configured bucket. The fs backend is also returned on its own
// so its signed links can be served.
func newObjectStorage(ctx context.Context, cfg *config.Config) (service.ObjectStorage, *fs.Storage, error) {
	m := cfg.Public.Media
	switch m.Backend {
	case config.MediaBackendFs:
		local, err := fs.New(m.FsRoot, m.Bucket, MediaRoutePrefix, []byte(cfg.MediaSigningKey()))
		if err != nil {
			return nil, nil, err
		}
		logger.Log.Info("storing media on local disk", "root", m.FsRoot, "bucket", m.Bucket)
		return local, local, nil
	case config.MediaBackendS3:
		bucket, err := s3.New(ctx, s3.Config{
			Bucket:    m.Bucket,
			Region:    m.S3Region,
			Endpoint:  m.S3Endpoint,
			PathStyle: m.S3PathStyle,
			AccessKey: cfg.Private.S3AccessKey,
			SecretKey: cfg.Private.S3SecretKey,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Log.Info("storing media in s3", "bucket", m.Bucket, "endpoint", m.S3Endpoint)
		return bucket, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown media backend %q", m.Backend)
}

func warnMissingSecrets(cfg *config.Config) {
	if cfg.Private.SessionSecret == "" {
		logger.Log.Warn("session secret is not set, admin sessions are disabled")
	}
	if cfg.Private.AdminPassword == "" && cfg.Private.AdminPasswordHash == "" {
		logger.Log.Warn("admin password is not set, admin login is disabled")
	}
	if cfg.Private.CaptchaSecret == "" {
		logger.Log.Warn("captcha secret is not set, every submission will be rejected")
	}
}
