package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/facturia/invoice-ocr/internal/common"
)

// requireToken guards extraction routes with a static bearer token.
// Constant-time compare so the check doesn't leak prefix length.
func (s *Service) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected := "Bearer " + s.cfg.AccessToken
		got := r.Header.Get("Authorization")
		if s.cfg.AccessToken == "" ||
			subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			writeError(w, common.NewAppError("UNAUTHORIZED", "invalid or missing token", common.ErrUnauthorized))
			return
		}
		next.ServeHTTP(w, r)
	})
}
