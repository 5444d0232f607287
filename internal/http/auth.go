package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

type userIDKey struct{}

// Authenticator resolves the calling user from a request. Token issuance and
// validation happen upstream; this service only consumes the result.
type Authenticator interface {
	Authenticate(r *http.Request) (int64, error)
}

// HeaderAuthenticator trusts a numeric user id set by the gateway on a
// configured header after it has verified the token.
type HeaderAuthenticator struct {
	Header string
}

func (a HeaderAuthenticator) Authenticate(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(a.Header))
	if raw == "" {
		return 0, errNoCredentials
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errNoCredentials
	}
	return id, nil
}

// withAuth rejects unauthenticated requests and stashes the user id in the
// request context for handlers.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.auth.Authenticate(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Token requerido")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userIDFrom returns the authenticated user id placed by withAuth.
func userIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey{}).(int64)
	return id
}
