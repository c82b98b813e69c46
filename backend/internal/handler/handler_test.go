package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/itchan-dev/wall/shared/api"
	"github.com/itchan-dev/wall/shared/config"
	"github.com/itchan-dev/wall/shared/domain"
)

// --- Mocks ---

type MockIntake struct {
	SubmitFunc func(ctx context.Context, data domain.SubmissionIntakeData) (domain.SubmissionId, error)
}

func (m *MockIntake) Submit(ctx context.Context, data domain.SubmissionIntakeData) (domain.SubmissionId, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, data)
	}
	return "id", nil
}

type MockQuery struct {
	QueryFunc func(ctx context.Context, opts domain.QueryOptions) (domain.QueryResult, error)
}

func (m *MockQuery) Query(ctx context.Context, opts domain.QueryOptions) (domain.QueryResult, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, opts)
	}
	return domain.QueryResult{}, nil
}

type MockModeration struct {
	UpdateFunc        func(ctx context.Context, data domain.SubmissionUpdateData) error
	SetVisibilityFunc func(ctx context.Context, id domain.SubmissionId, visible bool) error
	RemoveImageFunc   func(ctx context.Context, id domain.SubmissionId, key domain.ImageKey) error
	DeleteFunc        func(ctx context.Context, id domain.SubmissionId) error
}

func (m *MockModeration) Update(ctx context.Context, data domain.SubmissionUpdateData) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, data)
	}
	return nil
}

func (m *MockModeration) SetVisibility(ctx context.Context, id domain.SubmissionId, visible bool) error {
	if m.SetVisibilityFunc != nil {
		return m.SetVisibilityFunc(ctx, id, visible)
	}
	return nil
}

func (m *MockModeration) RemoveImage(ctx context.Context, id domain.SubmissionId, key domain.ImageKey) error {
	if m.RemoveImageFunc != nil {
		return m.RemoveImageFunc(ctx, id, key)
	}
	return nil
}

func (m *MockModeration) Delete(ctx context.Context, id domain.SubmissionId) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type MockAuth struct {
	LoginFunc func(ctx context.Context, password string) (string, time.Time, error)
}

func (m *MockAuth) Login(ctx context.Context, password string) (string, time.Time, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, password)
	}
	return "token", time.Now().Add(time.Hour), nil
}

type MockViews struct {
	RecordFunc func(ctx context.Context, source domain.ViewSource)
	StatsFunc  func(ctx context.Context) (domain.ViewStats, error)
}

func (m *MockViews) Record(ctx context.Context, source domain.ViewSource) {
	if m.RecordFunc != nil {
		m.RecordFunc(ctx, source)
	}
}

func (m *MockViews) Stats(ctx context.Context) (domain.ViewStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return domain.ViewStats{}, nil
}

type MockCookies struct {
	setToken string
	cleared  bool
}

func (m *MockCookies) SetSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	m.setToken = token
}

func (m *MockCookies) ClearSessionCookie(w http.ResponseWriter) {
	m.cleared = true
}

type MockMedia struct {
	OpenFunc func(key, expires, sig string) (*os.File, error)
}

func (m *MockMedia) Open(key, expires, sig string) (*os.File, error) {
	return m.OpenFunc(key, expires, sig)
}

type MockHealth struct {
	err error
}

func (m *MockHealth) Ping(ctx context.Context) error {
	return m.err
}

// --- Helpers ---

type testDeps struct {
	intake     *MockIntake
	query      *MockQuery
	moderation *MockModeration
	auth       *MockAuth
	views      *MockViews
	cookies    *MockCookies
	health     *MockHealth
}

func testConfig() *config.Config {
	return &config.Config{Public: config.Public{
		PublicPageSize:         12,
		AdminPageSize:          10,
		MaxAttachments:         3,
		MaxTotalAttachmentSize: 1 << 20,
	}}
}

func newTestHandler(media MediaOpener) (*Handler, *testDeps) {
	deps := &testDeps{
		intake:     &MockIntake{},
		query:      &MockQuery{},
		moderation: &MockModeration{},
		auth:       &MockAuth{},
		views:      &MockViews{},
		cookies:    &MockCookies{},
		health:     &MockHealth{},
	}
	h := New(testConfig(), Services{
		Intake:     deps.intake,
		Query:      deps.query,
		Moderation: deps.moderation,
		Auth:       deps.auth,
		Views:      deps.views,
	}, deps.cookies, media, deps.health)
	return h, deps
}

func createRequest(t *testing.T, method, url string, body []byte) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, url, bytes.NewBuffer(body))
}

func withURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeResult(t *testing.T, rr *httptest.ResponseRecorder) api.Result {
	t.Helper()
	var res api.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	return res
}
