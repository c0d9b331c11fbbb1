// internal/common/middleware/identity.go
// Resolves the calling user from the gateway-provided identity header.
// Authentication itself happens upstream; this service only needs the id.

package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mekanapp/mekan-backend/internal/common/utils"
)

const identityHeader = "X-User-ID"

type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// Authenticate installs the caller's user id into the request context
// under the "userID" key as int64.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(identityHeader)
		if raw == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing identity header")
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid user ID")
			return
		}

		ctx := context.WithValue(r.Context(), "userID", userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID extracts the caller's id from a request context
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value("userID").(int64)
	return id, ok
}
