package handler

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/itchan-dev/wall/backend/internal/service"
	"github.com/itchan-dev/wall/shared/config"
)

// SessionCookies writes and clears the admin session cookie.
type SessionCookies interface {
	SetSessionCookie(w http.ResponseWriter, token string, expires time.Time)
	ClearSessionCookie(w http.ResponseWriter)
}

// MediaOpener serves locally stored media behind signed links.
type MediaOpener interface {
	Open(key, expires, sig string) (*os.File, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Services struct {
	Intake     service.IntakeService
	Query      service.QueryService
	Moderation service.ModerationService
	Auth       service.AuthService
	Views      service.ViewsService
}

type Handler struct {
	intake     service.IntakeService
	query      service.QueryService
	moderation service.ModerationService
	auth       service.AuthService
	views      service.ViewsService
	cookies    SessionCookies
	media      MediaOpener
	health     HealthChecker
	cfg        *config.Config
}

// New builds the handler. media may be nil when objects are not stored locally.
func New(cfg *config.Config, services Services, cookies SessionCookies, media MediaOpener, health HealthChecker) *Handler {
	return &Handler{
		intake:     services.Intake,
		query:      services.Query,
		moderation: services.Moderation,
		auth:       services.Auth,
		views:      services.Views,
		cookies:    cookies,
		media:      media,
		health:     health,
		cfg:        cfg,
	}
}

// HasLocalMedia reports whether the /media route should be mounted.
func (h *Handler) HasLocalMedia() bool {
	return h.media != nil
}
