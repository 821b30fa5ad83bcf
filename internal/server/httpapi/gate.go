package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/tourgo/internal/common"
)

type ctxKey string

const identityKey ctxKey = "identity"

// publicPaths are reachable without a session token. Matching is exact.
var publicPaths = map[string]struct{}{
	"/healthz":                             {},
	"/api/users/public-key":                {},
	"/api/users/login":                     {},
	"/api/users/register":                  {},
	"/api/users/exists":                    {},
	"/api/users/forget-password":           {},
	"/api/users/change-password":           {},
	"/api/articles/get-recommand-articles": {},
	"/api/articles/get-article-info":       {},
	"/api/articles/get-label-articles":     {},
	"/api/articles/get-follow-articles":    {},
	"/api/searchs/search-articles":         {},
	"/api/labels/get-labels":               {},
}

// TokenVerifier resolves a session token to the username it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// IdentityFrom returns the authenticated username placed in ctx by the gate.
func IdentityFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(identityKey).(string)
	return v, ok && v != ""
}

func withIdentity(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, identityKey, username)
}

func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get(common.AuthorizationHeader)
	if h == "" {
		return "", common.ErrTokenMissing
	}
	token, ok := strings.CutPrefix(h, common.BearerPrefix)
	if !ok || strings.TrimSpace(token) == "" {
		return "", common.ErrInvalidToken
	}
	return strings.TrimSpace(token), nil
}

// gate authenticates every request whose path is not public. Rejections are
// answered with HTTP 401 and never reach a handler.
func (s *Server) gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := publicPaths[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		token, err := bearerToken(r)
		if err == nil {
			var username string
			username, err = s.tokens.Verify(token)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), username)))
				return
			}
		}

		msg := "invalid token"
		switch {
		case errors.Is(err, common.ErrTokenMissing):
			msg = "missing token"
		case errors.Is(err, common.ErrTokenExpired):
			msg = "token expired"
		}
		s.logger.Debug(r.Context(), "request rejected by gate", "path", r.URL.Path, "reason", msg)
		writeEnvelope(w, http.StatusUnauthorized, Envelope{Code: http.StatusUnauthorized, Message: msg})
	})
}
