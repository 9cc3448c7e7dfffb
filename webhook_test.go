package rolniknysa

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

// Digest of {"x":1} under "s3cr3t", as the sender computes it.
const signedHeader = "sha1=6f1e9575a17c355257e1f32d87524bdc097fb5e1"

func TestVerifyAcceptsSignedBody(t *testing.T) {
	v := NewVerifier([]byte("s3cr3t"))
	if err := v.Verify([]byte(`{"x":1}`), signedHeader); err != nil {
		t.Fatalf("Verify rejected a correctly signed body: %v", err)
	}
}

func TestVerifyRejectsTamperedHeader(t *testing.T) {
	v := NewVerifier([]byte("s3cr3t"))
	for i := 0; i < len(signedHeader); i++ {
		flipped := []byte(signedHeader)
		flipped[i] ^= 0x01
		if err := v.Verify([]byte(`{"x":1}`), string(flipped)); err != ErrSignatureMismatch {
			t.Fatalf("flipping header byte %d: got %v, want ErrSignatureMismatch", i, err)
		}
	}
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	v := NewVerifier([]byte("s3cr3t"))
	body := []byte(`{"x":1}`)
	for i := range body {
		tampered := append([]byte(nil), body...)
		tampered[i] ^= 0x01
		if err := v.Verify(tampered, signedHeader); err != ErrSignatureMismatch {
			t.Fatalf("flipping body byte %d: got %v, want ErrSignatureMismatch", i, err)
		}
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	v := NewVerifier([]byte("not-the-secret"))
	if err := v.Verify([]byte(`{"x":1}`), signedHeader); err != ErrSignatureMismatch {
		t.Fatalf("got %v, want ErrSignatureMismatch", err)
	}
}

func TestVerifyEmptyBody(t *testing.T) {
	v := NewVerifier([]byte("s3cr3t"))
	// Empty body loses regardless of what the header says.
	for _, header := range []string{"", signedHeader, "sha1=junk"} {
		if err := v.Verify(nil, header); err != ErrBodyEmpty {
			t.Fatalf("header %q: got %v, want ErrBodyEmpty", header, err)
		}
	}
}

func TestVerifyMissingHeader(t *testing.T) {
	v := NewVerifier([]byte("s3cr3t"))
	if err := v.Verify([]byte(`{"x":1}`), ""); err != ErrSignatureMismatch {
		t.Fatalf("got %v, want ErrSignatureMismatch", err)
	}
}

func TestWebhookMiddleware(t *testing.T) {
	v := NewVerifier([]byte("s3cr3t"))
	e := echo.New()
	handler := v.Middleware(func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	t.Run("signed request passes and body survives", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/github/webhook", strings.NewReader(`{"x":1}`))
		req.Header.Set(SignatureHeader, signedHeader)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := handler(c); err != nil {
			t.Fatalf("handler returned %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("rejections are an opaque 403", func(t *testing.T) {
		for name, req := range map[string]*http.Request{
			"bad signature": func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/api/github/webhook", strings.NewReader(`{"x":1}`))
				r.Header.Set(SignatureHeader, "sha1=0000000000000000000000000000000000000000")
				return r
			}(),
			"no header":  httptest.NewRequest(http.MethodPost, "/api/github/webhook", strings.NewReader(`{"x":1}`)),
			"empty body": httptest.NewRequest(http.MethodPost, "/api/github/webhook", nil),
		} {
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			err := handler(c)
			he, ok := err.(*echo.HTTPError)
			if !ok || he.Code != http.StatusForbidden {
				t.Errorf("%s: got %v, want 403", name, err)
			}
		}
	})
}
