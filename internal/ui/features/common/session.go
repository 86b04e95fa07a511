// Package common provides shared helpers for UI features.
package common

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// SessionName is the cookie that carries the workspace id.
const SessionName = "binfinder"

const workspaceValue = "workspace"

type workspaceKey struct{}

// SessionMiddleware ensures every request carries a workspace id, issuing a
// new one in the session cookie when the browser has none (or an invalid one).
func SessionMiddleware(store sessions.Store, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, SessionName)
			if err != nil {
				logger.Debug("discarding invalid session", "error", err)
			}

			id, _ := session.Values[workspaceValue].(string)
			if _, perr := uuid.Parse(id); perr != nil {
				id = uuid.NewString()
				session.Values[workspaceValue] = id
				if err := session.Save(r, w); err != nil {
					http.Error(w, "failed to save session", http.StatusInternalServerError)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithWorkspaceID(r.Context(), id)))
		})
	}
}

// WithWorkspaceID returns a context carrying id.
func WithWorkspaceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, workspaceKey{}, id)
}

// WorkspaceID returns the workspace id stored by SessionMiddleware.
func WorkspaceID(ctx context.Context) string {
	id, _ := ctx.Value(workspaceKey{}).(string)
	return id
}
