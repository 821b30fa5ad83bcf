package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/tourgo/internal/common"
)

type apiFunc func(w http.ResponseWriter, r *http.Request) (any, error)

// handle writes the envelope for fn's result. Authentication failures that
// slip past the gate are still answered with 401.
func (s *Server) handle(fn apiFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fn(w, r)
		if err != nil {
			if errors.Is(err, common.ErrAuthentication) {
				writeEnvelope(w, http.StatusUnauthorized, Envelope{Code: http.StatusUnauthorized, Message: "unauthorized"})
				return
			}
			code, _ := errorCode(err)
			if code == http.StatusInternalServerError {
				s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
			}
			writeError(w, err)
			return
		}
		writeOK(w, data)
	}
}

// actor returns the username the gate authenticated.
func actor(r *http.Request) (string, error) {
	u, ok := IdentityFrom(r.Context())
	if !ok {
		return "", common.ErrTokenMissing
	}
	return u, nil
}
