package middleware

import (
	"context"
	"net/http"

	"github.com/mediconnect/omnichannel-platform/internal/identity"
	"github.com/mediconnect/omnichannel-platform/pkg/logging"
)

// SessionReader resolves the current durable session.
type SessionReader interface {
	CurrentSession(ctx context.Context) (*identity.User, error)
}

// SessionAuth gates routes behind the durable session. The cookie only
// carries the user id of the session it was issued for; since creating
// a new session replaces any prior one, a stale cookie stops matching
// and is rejected.
func SessionAuth(sessions SessionReader, cookieName string, logger *logging.Logger, roles ...identity.Role) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	allowed := make(map[identity.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}

			user, err := sessions.CurrentSession(r.Context())
			if err != nil {
				logger.Error("session lookup failed", "error", err)
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
			if user == nil || user.ID != cookie.Value {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}

			if len(allowed) > 0 {
				if _, ok := allowed[user.Role]; !ok {
					http.Error(w, "insufficient role", http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(identity.WithUser(r.Context(), *user)))
		})
	}
}
