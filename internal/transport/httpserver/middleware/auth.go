package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"finance-tracker-go/internal/config"
)

// UserResolver attaches the ledger owner's id to the request context.
// The id comes from a trusted header set by the edge proxy; when the
// header is absent the configured default owner is used. Requests that
// resolve to no user at all are rejected.
type UserResolver struct {
	header        string
	defaultUserID string
}

type contextKey int

const userIDKey contextKey = iota

func NewUserResolver(cfg config.AuthConfig) *UserResolver {
	return &UserResolver{
		header:        strings.TrimSpace(cfg.UserHeader),
		defaultUserID: strings.TrimSpace(cfg.DefaultUserID),
	}
}

func (a *UserResolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := ""
		if a.header != "" {
			userID = strings.TrimSpace(r.Header.Get(a.header))
		}
		if userID == "" {
			userID = a.defaultUserID
		}
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "user_not_resolved", "user not resolved")
			return
		}

		ctx := WithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(userIDKey)
	userID, ok := value.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
