package api

import (
	"time"

	"github.com/itchan-dev/wall/shared/domain"
)

// Result is the uniform shape of every response.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type SessionResponse struct {
	Result
	Expires time.Time `json:"expires"`
}

type UpdateSubmissionRequest struct {
	Name    string `json:"name" validate:"required"`
	Message string `json:"message"`
}

type SetVisibilityRequest struct {
	IsVisible *bool `json:"is_visible" validate:"required"`
}

type RecordViewRequest struct {
	Source string `json:"source"`
	QRCode string `json:"qrcode"`
}

// PublicSubmission is what the wall shows. Storage keys stay server side.
type PublicSubmission struct {
	Id        domain.SubmissionId `json:"id"`
	Name      string              `json:"name"`
	Message   string              `json:"message"`
	ImageURLs []string            `json:"image_urls"`
	CreatedAt time.Time           `json:"created_at"`
}

// AdminSubmission carries keys alongside URLs so single images can be removed.
type AdminSubmission struct {
	Id        domain.SubmissionId    `json:"id"`
	Name      string                 `json:"name"`
	Message   string                 `json:"message"`
	IsVisible bool                   `json:"is_visible"`
	Images    []domain.ResolvedImage `json:"images"`
	CreatedAt time.Time              `json:"created_at"`
}

type ListResponse[T any] struct {
	Result
	Items      []T `json:"items"`
	TotalPages int `json:"total_pages"`
	Page       int `json:"page"`
}

type ViewStatsResponse struct {
	Result
	domain.ViewStats
}

func NewPublicSubmission(v domain.SubmissionView) PublicSubmission {
	urls := make([]string, 0, len(v.Images))
	for _, img := range v.Images {
		urls = append(urls, img.URL)
	}
	return PublicSubmission{Id: v.Id, Name: v.Name, Message: v.Message, ImageURLs: urls, CreatedAt: v.CreatedAt}
}

func NewAdminSubmission(v domain.SubmissionView) AdminSubmission {
	images := v.Images
	if images == nil {
		images = []domain.ResolvedImage{}
	}
	return AdminSubmission{Id: v.Id, Name: v.Name, Message: v.Message, IsVisible: v.IsVisible, Images: images, CreatedAt: v.CreatedAt}
}
