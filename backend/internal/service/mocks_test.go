package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/itchan-dev/wall/shared/domain"
)

// --- Mocks ---

type MockObjectStorage struct {
	UploadFunc    func(ctx context.Context, key string, data io.Reader, size int64, contentType string) error
	RemoveFunc    func(ctx context.Context, keys []string) error
	SignedURLFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)

	mu       sync.Mutex
	uploaded map[string][]byte
	removed  []string
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) error {
	if m.UploadFunc != nil {
		if err := m.UploadFunc(ctx, key, data, size, contentType); err != nil {
			return err
		}
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploaded == nil {
		m.uploaded = make(map[string][]byte)
	}
	m.uploaded[key] = b
	return nil
}

func (m *MockObjectStorage) Remove(ctx context.Context, keys []string) error {
	m.mu.Lock()
	m.removed = append(m.removed, keys...)
	m.mu.Unlock()
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, keys)
	}
	return nil
}

func (m *MockObjectStorage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.SignedURLFunc != nil {
		return m.SignedURLFunc(ctx, key, ttl)
	}
	return "https://media.test/" + key, nil
}

type MockSubmissionStorage struct {
	CreateSubmissionFunc        func(ctx context.Context, data domain.SubmissionCreationData) (domain.SubmissionId, error)
	GetSubmissionFunc           func(ctx context.Context, id domain.SubmissionId) (domain.Submission, error)
	UpdateSubmissionFunc        func(ctx context.Context, data domain.SubmissionUpdateData) error
	SetSubmissionVisibilityFunc func(ctx context.Context, id domain.SubmissionId, visible bool) error
	RemoveSubmissionImageFunc   func(ctx context.Context, id domain.SubmissionId, key domain.ImageKey) error
	DeleteSubmissionFunc        func(ctx context.Context, id domain.SubmissionId) error
	ListSubmissionsFunc         func(ctx context.Context) ([]domain.Submission, error)

	calls []string
}

func (m *MockSubmissionStorage) CreateSubmission(ctx context.Context, data domain.SubmissionCreationData) (domain.SubmissionId, error) {
	m.calls = append(m.calls, "create")
	if m.CreateSubmissionFunc != nil {
		return m.CreateSubmissionFunc(ctx, data)
	}
	return "new-id", nil
}

func (m *MockSubmissionStorage) GetSubmission(ctx context.Context, id domain.SubmissionId) (domain.Submission, error) {
	m.calls = append(m.calls, "get")
	if m.GetSubmissionFunc != nil {
		return m.GetSubmissionFunc(ctx, id)
	}
	return domain.Submission{Id: id, Name: "Ada"}, nil
}

func (m *MockSubmissionStorage) UpdateSubmission(ctx context.Context, data domain.SubmissionUpdateData) error {
	m.calls = append(m.calls, "update")
	if m.UpdateSubmissionFunc != nil {
		return m.UpdateSubmissionFunc(ctx, data)
	}
	return nil
}

func (m *MockSubmissionStorage) SetSubmissionVisibility(ctx context.Context, id domain.SubmissionId, visible bool) error {
	m.calls = append(m.calls, "visibility")
	if m.SetSubmissionVisibilityFunc != nil {
		return m.SetSubmissionVisibilityFunc(ctx, id, visible)
	}
	return nil
}

func (m *MockSubmissionStorage) RemoveSubmissionImage(ctx context.Context, id domain.SubmissionId, key domain.ImageKey) error {
	m.calls = append(m.calls, "remove_image")
	if m.RemoveSubmissionImageFunc != nil {
		return m.RemoveSubmissionImageFunc(ctx, id, key)
	}
	return nil
}

func (m *MockSubmissionStorage) DeleteSubmission(ctx context.Context, id domain.SubmissionId) error {
	m.calls = append(m.calls, "delete")
	if m.DeleteSubmissionFunc != nil {
		return m.DeleteSubmissionFunc(ctx, id)
	}
	return nil
}

func (m *MockSubmissionStorage) ListSubmissions(ctx context.Context) ([]domain.Submission, error) {
	m.calls = append(m.calls, "list")
	if m.ListSubmissionsFunc != nil {
		return m.ListSubmissionsFunc(ctx)
	}
	return nil, nil
}

type MockCaptcha struct {
	VerifyFunc func(ctx context.Context, token string) bool
	called     bool
}

func (m *MockCaptcha) Verify(ctx context.Context, token string) bool {
	m.called = true
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, token)
	}
	return true
}

type MockUploader struct {
	UploadFunc func(ctx context.Context, files []*domain.PendingFile) domain.ImageKeys
	called     bool
}

func (m *MockUploader) Upload(ctx context.Context, files []*domain.PendingFile) domain.ImageKeys {
	m.called = true
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, files)
	}
	return domain.ImageKeys{}
}

type MockSession struct {
	IssueFunc  func(claims domain.SessionClaims) (string, time.Time, error)
	VerifyFunc func(token string) (*domain.SessionClaims, error)
}

func (m *MockSession) Issue(claims domain.SessionClaims) (string, time.Time, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(claims)
	}
	return "token", time.Now().Add(time.Hour), nil
}

func (m *MockSession) Verify(token string) (*domain.SessionClaims, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}
	return &domain.SessionClaims{Admin: true}, nil
}

type MockViewsStorage struct {
	RecordPageViewFunc func(ctx context.Context, source domain.ViewSource) error
	PageViewStatsFunc  func(ctx context.Context, recentLimit int) (domain.ViewStats, error)
	recorded           []domain.ViewSource
}

func (m *MockViewsStorage) RecordPageView(ctx context.Context, source domain.ViewSource) error {
	m.recorded = append(m.recorded, source)
	if m.RecordPageViewFunc != nil {
		return m.RecordPageViewFunc(ctx, source)
	}
	return nil
}

func (m *MockViewsStorage) PageViewStats(ctx context.Context, recentLimit int) (domain.ViewStats, error) {
	if m.PageViewStatsFunc != nil {
		return m.PageViewStatsFunc(ctx, recentLimit)
	}
	return domain.ViewStats{}, nil
}

// --- Helpers ---

func pngBytes(t *testing.T) []byte {
	t.Helper()
	return pngImage(t, 4, 3)
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func pendingFile(name, mimeType string, data []byte) *domain.PendingFile {
	return &domain.PendingFile{
		FileCommonMetadata: domain.FileCommonMetadata{
			Filename:  name,
			SizeBytes: int64(len(data)),
			MimeType:  mimeType,
		},
		Data: bytes.NewReader(data),
	}
}
