package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/itchan-dev/wall/backend/internal/service/utils"
	"github.com/itchan-dev/wall/shared/domain"
	internal_errors "github.com/itchan-dev/wall/shared/errors"
	"github.com/itchan-dev/wall/shared/logger"
	"github.com/itchan-dev/wall/shared/middleware/metrics"
)

type ModerationService interface {
	Update(ctx context.Context, data domain.SubmissionUpdateData) error
	SetVisibility(ctx context.Context, id domain.SubmissionId, visible bool) error
	RemoveImage(ctx context.Context, id domain.SubmissionId, key domain.ImageKey) error
	Delete(ctx context.Context, id domain.SubmissionId) error
}

type ModerationStorage interface {
	GetSubmission(ctx context.Context, id domain.SubmissionId) (domain.Submission, error)
	UpdateSubmission(ctx context.Context, data domain.SubmissionUpdateData) error
	SetSubmissionVisibility(ctx context.Context, id domain.SubmissionId, visible bool) error
	RemoveSubmissionImage(ctx context.Context, id domain.SubmissionId, key domain.ImageKey) error
	DeleteSubmission(ctx context.Context, id domain.SubmissionId) error
}

type MediaRemover interface {
	Remove(ctx context.Context, keys []string) error
}

type Moderation struct {
	storage   ModerationStorage
	media     MediaRemover
	validator SubmissionValidator
}

func NewModeration(storage ModerationStorage, media MediaRemover, validator SubmissionValidator) *Moderation {
	return &Moderation{storage: storage, media: media, validator: validator}
}

func (m *Moderation) Update(ctx context.Context, data domain.SubmissionUpdateData) (err error) {
	defer func() { metrics.ModerationTotal.WithLabelValues("update", metrics.Result(err)).Inc() }()

	data.Name = utils.SanitizeText(data.Name)
	data.Message = utils.SanitizeText(data.Message)
	if err := m.validator.Name(data.Name); err != nil {
		return err
	}
	if err := m.validator.Message(data.Message); err != nil {
		return err
	}
	return m.storage.UpdateSubmission(ctx, data)
}

func (m *Moderation) SetVisibility(ctx context.Context, id domain.SubmissionId, visible bool) (err error) {
	defer func() { metrics.ModerationTotal.WithLabelValues("visibility", metrics.Result(err)).Inc() }()
	return m.storage.SetSubmissionVisibility(ctx, id, visible)
}

// RemoveImage deletes the object first and only then drops the key from the record.
// If the object can't be removed the record still points at it.
func (m *Moderation) RemoveImage(ctx context.Context, id domain.SubmissionId, key domain.ImageKey) (err error) {
	defer func() { metrics.ModerationTotal.WithLabelValues("remove_image", metrics.Result(err)).Inc() }()

	sub, err := m.storage.GetSubmission(ctx, id)
	if err != nil {
		return err
	}
	if !slices.Contains(sub.ImageKeys, key) {
		return internal_errors.NotFound("Image not found")
	}

	if err := m.removeMedia(ctx, []string{key}); err != nil {
		return err
	}
	return m.storage.RemoveSubmissionImage(ctx, id, key)
}

// Delete removes every object the submission references, then the record.
// A failure in between leaves a record whose links no longer resolve; it never leaves unowned media.
func (m *Moderation) Delete(ctx context.Context, id domain.SubmissionId) (err error) {
	defer func() { metrics.ModerationTotal.WithLabelValues("delete", metrics.Result(err)).Inc() }()

	sub, err := m.storage.GetSubmission(ctx, id)
	if err != nil {
		return err
	}

	if len(sub.ImageKeys) > 0 {
		if err := m.removeMedia(ctx, sub.ImageKeys); err != nil {
			return err
		}
	}

	if err := m.storage.DeleteSubmission(ctx, id); err != nil {
		logger.Log.Error("media removed but record delete failed", "id", id, "keys", []string(sub.ImageKeys), "error", err)
		return err
	}
	logger.Log.Info("submission deleted", "id", id, "images", len(sub.ImageKeys))
	return nil
}

func (m *Moderation) removeMedia(ctx context.Context, keys []string) error {
	err := m.media.Remove(ctx, keys)
	metrics.MediaOpsTotal.WithLabelValues("remove", metrics.Result(err)).Inc()
	if err != nil {
		logger.Log.Error("failed to remove media", "keys", keys, "error", err)
		return fmt.Errorf("remove media: %w", err)
	}
	return nil
}
