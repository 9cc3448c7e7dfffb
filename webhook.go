package rolniknysa

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// SignatureHeader carries the sender's digest of the request body.
const SignatureHeader = "X-Hub-Signature"

var (
	// ErrBodyEmpty is returned when a webhook request carries no body.
	ErrBodyEmpty = errors.New("request body empty")
	// ErrSignatureMismatch is returned when the signature header is
	// missing or does not match the computed digest.
	ErrSignatureMismatch = errors.New("body digest did not match signature")
)

// Verifier authenticates inbound webhook requests against a shared secret.
// The secret is loaded once at startup and never changes.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier keyed with the given shared secret.
func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret}
}

// Verify checks that signature is the sender's digest of body: the literal
// "sha1=" followed by the hex HMAC-SHA1 of the raw bytes under the shared
// secret. The body must be byte-identical to what the sender signed; any
// re-serialization of a parsed payload breaks verification.
//
// The comparison is ordinary string equality, not hmac.Equal, matching the
// sender's historical contract.
func (v *Verifier) Verify(body []byte, signature string) error {
	if len(body) == 0 {
		return ErrBodyEmpty
	}
	mac := hmac.New(sha1.New, v.secret)
	mac.Write(body)
	digest := "sha1=" + hex.EncodeToString(mac.Sum(nil))
	if signature == "" || signature != digest {
		return ErrSignatureMismatch
	}
	return nil
}

// Middleware gates a route behind Verify. The raw body is read before any
// parsing and restored for the downstream handler. Every rejection maps to
// the same opaque 403 so callers cannot tell which check failed.
func (v *Verifier) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "cannot read body")
		}
		c.Request().Body = io.NopCloser(bytes.NewReader(body))
		if err := v.Verify(body, c.Request().Header.Get(SignatureHeader)); err != nil {
			c.Logger().Warnf("webhook rejected: %v", err)
			return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
		}
		return next(c)
	}
}
