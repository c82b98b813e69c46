package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/itchan-dev/wall/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSession struct {
	verifyFunc func(token string) (*domain.SessionClaims, error)
}

func (m *mockSession) Issue(claims domain.SessionClaims) (string, time.Time, error) {
	return "token", time.Now().Add(time.Hour), nil
}

func (m *mockSession) Verify(token string) (*domain.SessionClaims, error) {
	if m.verifyFunc != nil {
		return m.verifyFunc(token)
	}
	return nil, errors.New("invalid session")
}

func okHandler(t *testing.T, wantAdmin bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantAdmin, IsAdmin(r))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdminOnly(t *testing.T) {
	session := &mockSession{
		verifyFunc: func(token string) (*domain.SessionClaims, error) {
			switch token {
			case "good":
				return &domain.SessionClaims{Admin: true, Expires: time.Now().Add(time.Hour)}, nil
			case "not-admin":
				return &domain.SessionClaims{Admin: false, Expires: time.Now().Add(time.Hour)}, nil
			}
			return nil, errors.New("invalid session")
		},
	}
	auth := NewAuth(session, false)
	h := auth.AdminOnly()(okHandler(t, true))

	cases := []struct {
		name   string
		cookie string
		want   int
	}{
		{"valid session", "good", http.StatusOK},
		{"no cookie", "", http.StatusUnauthorized},
		{"bad token", "forged", http.StatusUnauthorized},
		{"claims without admin", "not-admin", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/admin/submissions", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tc.cookie})
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code)

			if tc.want == http.StatusUnauthorized {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, false, body["success"])
				assert.Equal(t, "invalid session", body["message"], "reason is never more specific")
			}
		})
	}
}

func TestSessionCookies(t *testing.T) {
	auth := NewAuth(&mockSession{}, true)
	expires := time.Now().Add(24 * time.Hour)

	rr := httptest.NewRecorder()
	auth.SetSessionCookie(rr, "signed", expires)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, SessionCookieName, c.Name)
	assert.Equal(t, "signed", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.WithinDuration(t, expires, c.Expires, time.Second)

	rr = httptest.NewRecorder()
	auth.ClearSessionCookie(rr)
	cookies = rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, apiCSP, rr.Header().Get("Content-Security-Policy"))
	assert.NotEmpty(t, rr.Header().Get("Strict-Transport-Security"))

	rr = httptest.NewRecorder()
	SecurityHeaders(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))
}
