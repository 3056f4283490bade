package main

import (
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"

	"crypto/hmac"
	"crypto/sha256"
)

// authService verifies HMAC-signed bearer tokens of the form
// base64(subject).hex(hmac-sha256(subject)). Tokens are minted out of band
// with the shared secret; the server only verifies.
type authService struct {
	secret []byte
}

func newAuthService(secret string) *authService {
	return &authService{secret: []byte(secret)}
}

// tokenFor mints a token for a subject. Used by operators and tests.
func (a *authService) tokenFor(subject string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(subject))
	mac := hmac.New(sha256.New, a.secret)
	_, _ = mac.Write([]byte(payload))
	return payload + "." + hex.EncodeToString(mac.Sum(nil))
}

// verifyToken checks a token's signature and returns the subject.
func (a *authService) verifyToken(token string) (string, bool) {
	payload, signature, ok := strings.Cut(token, ".")
	if !ok {
		return "", false
	}

	mac := hmac.New(sha256.New, a.secret)
	_, _ = mac.Write([]byte(payload))
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return "", false
	}
	if !hmac.Equal(provided, expected) {
		return "", false
	}

	subject, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil || len(subject) == 0 {
		return "", false
	}
	return string(subject), true
}

// authMiddleware requires a valid bearer token on /api routes when a token
// secret is configured. Health and metrics stay open for probes and
// scrapers.
func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.auth == nil || !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, ok := s.auth.verifyToken(token); !ok {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
