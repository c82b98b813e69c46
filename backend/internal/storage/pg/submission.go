package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/itchan-dev/wall/backend/internal/utils"
	"github.com/itchan-dev/wall/shared/domain"
	internal_errors "github.com/itchan-dev/wall/shared/errors"
)

const submissionNotFound = "Submission not found"

// pq error code for check_violation
const checkViolation = "23514"

const submissionColumns = "id, name, message, image_urls, is_visible, created_at"

func (s *Storage) CreateSubmission(ctx context.Context, data domain.SubmissionCreationData) (domain.SubmissionId, error) {
	keys := data.ImageKeys
	if keys == nil {
		keys = domain.ImageKeys{}
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, name, message, image_urls, is_visible) VALUES ($1, $2, $3, $4, $5)`,
		id, data.Name, data.Message, keys, data.IsVisible,
	)
	if err != nil {
		return "", mapWriteError("failed to insert submission", err)
	}
	return id, nil
}

func (s *Storage) GetSubmission(ctx context.Context, id domain.SubmissionId) (domain.Submission, error) {
	if !validId(id) {
		return domain.Submission{}, internal_errors.NotFound(submissionNotFound)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id)
	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Submission{}, internal_errors.NotFound(submissionNotFound)
		}
		return domain.Submission{}, fmt.Errorf("failed to get submission: %w", err)
	}
	return sub, nil
}

// ListSubmissions returns every submission, newest first. Ties are broken by id so the order is stable.
func (s *Storage) ListSubmissions(ctx context.Context) ([]domain.Submission, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+submissionColumns+` FROM submissions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var subs []domain.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}
	return subs, nil
}

func (s *Storage) UpdateSubmission(ctx context.Context, data domain.SubmissionUpdateData) error {
	return s.execOne(ctx, data.Id, "failed to update submission",
		`UPDATE submissions SET name = $2, message = $3 WHERE id = $1`,
		data.Id, data.Name, data.Message,
	)
}

func (s *Storage) SetSubmissionVisibility(ctx context.Context, id domain.SubmissionId, visible bool) error {
	return s.execOne(ctx, id, "failed to set visibility",
		`UPDATE submissions SET is_visible = $2 WHERE id = $1`,
		id, visible,
	)
}

// RemoveSubmissionImage drops every occurrence of key from image_urls. The rest keep their order.
func (s *Storage) RemoveSubmissionImage(ctx context.Context, id domain.SubmissionId, key domain.ImageKey) error {
	return s.execOne(ctx, id, "failed to remove image key",
		`UPDATE submissions SET image_urls = array_remove(image_urls, $2::text) WHERE id = $1`,
		id, key,
	)
}

func (s *Storage) DeleteSubmission(ctx context.Context, id domain.SubmissionId) error {
	return s.execOne(ctx, id, "failed to delete submission",
		`DELETE FROM submissions WHERE id = $1`,
		id,
	)
}

// execOne runs a statement that targets the single row with the given id.
func (s *Storage) execOne(ctx context.Context, id domain.SubmissionId, failMsg, query string, args ...any) error {
	if !validId(id) {
		return internal_errors.NotFound(submissionNotFound)
	}
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(failMsg, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", failMsg, err)
	}
	if affected == 0 {
		return internal_errors.NotFound(submissionNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (domain.Submission, error) {
	var sub domain.Submission
	err := row.Scan(&sub.Id, &sub.Name, &sub.Message, &sub.ImageKeys, &sub.IsVisible, &sub.CreatedAt)
	return sub, err
}

func mapWriteError(msg string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == checkViolation {
		return internal_errors.Validation(utils.NameTooShortMessage)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
