package service

import (
	"context"

	"github.com/itchan-dev/wall/backend/internal/service/utils"
	"github.com/itchan-dev/wall/shared/domain"
	internal_errors "github.com/itchan-dev/wall/shared/errors"
	"github.com/itchan-dev/wall/shared/logger"
	"github.com/itchan-dev/wall/shared/middleware/metrics"
)

const (
	CaptchaMissingMessage  = "Recaptcha token missing"
	CaptchaRejectedMessage = "Recaptcha verification failed"
	SaveFailedMessage      = "Failed to save submission"
)

type IntakeService interface {
	Submit(ctx context.Context, data domain.SubmissionIntakeData) (domain.SubmissionId, error)
}

type CaptchaVerifier interface {
	Verify(ctx context.Context, token string) bool
}

type SubmissionValidator interface {
	Name(name domain.Name) error
	Message(message domain.MsgText) error
}

type IntakeStorage interface {
	CreateSubmission(ctx context.Context, data domain.SubmissionCreationData) (domain.SubmissionId, error)
}

type Intake struct {
	storage        IntakeStorage
	captcha        CaptchaVerifier
	uploader       MediaUploader
	validator      SubmissionValidator
	defaultVisible bool
}

func NewIntake(storage IntakeStorage, captcha CaptchaVerifier, uploader MediaUploader, validator SubmissionValidator, defaultVisible bool) *Intake {
	return &Intake{
		storage:        storage,
		captcha:        captcha,
		uploader:       uploader,
		validator:      validator,
		defaultVisible: defaultVisible,
	}
}

// Submit runs the whole write path: text checks, captcha, uploads, insert.
// Media already stored is kept when the insert fails.
func (s *Intake) Submit(ctx context.Context, data domain.SubmissionIntakeData) (domain.SubmissionId, error) {
	name := utils.SanitizeText(data.Name)
	message := utils.SanitizeText(data.Message)

	if err := s.validator.Name(name); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return "", err
	}
	if err := s.validator.Message(message); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return "", err
	}

	if data.CaptchaToken == "" {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return "", internal_errors.Validation(CaptchaMissingMessage)
	}
	if !s.captcha.Verify(ctx, data.CaptchaToken) {
		metrics.SubmissionsTotal.WithLabelValues("captcha_rejected").Inc()
		return "", internal_errors.Verification(CaptchaRejectedMessage)
	}

	keys := s.uploader.Upload(ctx, data.Files)

	id, err := s.storage.CreateSubmission(ctx, domain.SubmissionCreationData{
		Name:      name,
		Message:   message,
		ImageKeys: keys,
		IsVisible: s.defaultVisible,
	})
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("persist_failed").Inc()
		logger.Log.Error("failed to persist submission", "error", err, "stored_keys", []string(keys))
		return "", internal_errors.Persistence(SaveFailedMessage)
	}

	metrics.SubmissionsTotal.WithLabelValues("created").Inc()
	logger.Log.Info("submission received", "id", id, "images", len(keys))
	return id, nil
}
