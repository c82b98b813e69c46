package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/itchan-dev/wall/shared/domain"
	"github.com/itchan-dev/wall/shared/errors"
	jwt_internal "github.com/itchan-dev/wall/shared/jwt"
	"github.com/itchan-dev/wall/shared/utils"
)

// SessionCookieName carries the signed admin session token.
const SessionCookieName = "admin_session"

type key int

const SessionClaimsKey key = 0

// Auth holds dependencies for the admin session middleware.
type Auth struct {
	session       jwt_internal.SessionService
	secureCookies bool
}

func NewAuth(session jwt_internal.SessionService, secureCookies bool) *Auth {
	return &Auth{session: session, secureCookies: secureCookies}
}

// AdminOnly rejects requests without a valid admin session with a uniform 401.
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := a.extractSession(r)
			if claims == nil || !claims.Admin {
				utils.WriteErrorAndStatusCode(w, errors.Auth())
				return
			}
			ctx := context.WithValue(r.Context(), SessionClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *Auth) extractSession(r *http.Request) *domain.SessionClaims {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims, err := a.session.Verify(cookie.Value)
	if err != nil {
		return nil
	}
	return claims
}

// SetSessionCookie writes the session token with an expiry matching the token's own.
func (a *Auth) SetSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *Auth) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetSessionFromContext returns the claims stored by AdminOnly, or nil.
func GetSessionFromContext(r *http.Request) *domain.SessionClaims {
	claims, ok := r.Context().Value(SessionClaimsKey).(*domain.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

func IsAdmin(r *http.Request) bool {
	claims := GetSessionFromContext(r)
	return claims != nil && claims.Admin
}
