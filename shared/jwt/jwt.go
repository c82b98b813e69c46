package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/itchan-dev/wall/shared/domain"
	"github.com/itchan-dev/wall/shared/logger"
)

// SessionTTL is the fixed validity window of an admin session.
const SessionTTL = 24 * time.Hour

// ErrInvalidSession is the only error Verify returns. Callers never learn why a token failed.
var ErrInvalidSession = errors.New("invalid session")

var errNoSecret = errors.New("session secret is not configured")

type SessionService interface {
	Issue(claims domain.SessionClaims) (token string, expires time.Time, err error)
	Verify(token string) (*domain.SessionClaims, error)
}

type sessionClaims struct {
	Admin   bool      `json:"admin"`
	Expires time.Time `json:"expires"`
	jwt.RegisteredClaims
}

type Jwt struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func New(secretKey string) *Jwt {
	return &Jwt{secretKey: []byte(secretKey), ttl: SessionTTL, now: time.Now}
}

// Issue signs claims with HS256. The expiry is always now+SessionTTL, whatever claims.Expires holds.
func (j *Jwt) Issue(claims domain.SessionClaims) (string, time.Time, error) {
	if len(j.secretKey) == 0 {
		logger.Log.Error("refusing to issue session", "error", errNoSecret)
		return "", time.Time{}, errNoSecret
	}

	issuedAt := j.now()
	expires := issuedAt.Add(j.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Admin:   claims.Admin,
		Expires: expires.UTC(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		logger.Log.Error("failed to sign session", "error", err)
		return "", time.Time{}, errors.New("can't create token")
	}
	return tokenString, expires, nil
}

// Verify checks the signature (HS256 only) and both expiry claims.
func (j *Jwt) Verify(tokenString string) (*domain.SessionClaims, error) {
	if len(j.secretKey) == 0 || tokenString == "" {
		return nil, ErrInvalidSession
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return j.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil || !token.Valid {
		logger.Log.Debug("session rejected", "error", err)
		return nil, ErrInvalidSession
	}

	if claims.Expires.IsZero() || !j.now().Before(claims.Expires) {
		return nil, ErrInvalidSession
	}

	return &domain.SessionClaims{Admin: claims.Admin, Expires: claims.Expires}, nil
}
