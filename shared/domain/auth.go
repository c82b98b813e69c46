package domain

import "time"

// SessionClaims are the claims carried by the admin session token.
type SessionClaims struct {
	Admin   bool      `json:"admin"`
	Expires time.Time `json:"expires"`
}
