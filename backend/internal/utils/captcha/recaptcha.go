// Package captcha verifies human-proof tokens against a reCAPTCHA compatible siteverify endpoint.
package captcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/itchan-dev/wall/shared/logger"
)

type Recaptcha struct {
	secret    string
	verifyURL string
	client    *http.Client
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

func New(secret, verifyURL string, timeout time.Duration) *Recaptcha {
	return &Recaptcha{
		secret:    secret,
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: timeout},
	}
}

// Verify makes exactly one call to the verification service and fails closed:
// a missing secret or token, a transport error, a non-2xx answer or success=false all yield false.
func (r *Recaptcha) Verify(ctx context.Context, token string) bool {
	if r.secret == "" {
		logger.Log.Error("captcha secret is not configured, rejecting")
		return false
	}
	if token == "" {
		return false
	}

	u, err := url.Parse(r.verifyURL)
	if err != nil {
		logger.Log.Error("bad captcha verify url", "error", err)
		return false
	}
	q := u.Query()
	q.Set("secret", r.secret)
	q.Set("response", token)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), nil)
	if err != nil {
		logger.Log.Error("failed to build captcha request", "error", err)
		return false
	}

	resp, err := r.client.Do(req)
	if err != nil {
		// the url holds the secret, so only the host is logged
		logger.Log.Warn("captcha verification unreachable", "host", u.Host, "error", ctxOrTransport(ctx, err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Log.Warn("captcha verification bad status", "status", resp.StatusCode)
		return false
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.Log.Warn("captcha verification bad body", "error", err)
		return false
	}
	if !body.Success {
		logger.Log.Info("captcha rejected", "codes", body.ErrorCodes)
	}
	return body.Success
}

func ctxOrTransport(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if uerr, ok := err.(*url.Error); ok {
		return uerr.Err
	}
	return err
}
