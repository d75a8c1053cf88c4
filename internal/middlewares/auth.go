package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-inventory/internal/logger"
	"github.com/sbilibin2017/gw-inventory/internal/models"
	"github.com/sbilibin2017/gw-inventory/internal/sessions"
)

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=middlewares

// TokenReader extracts the session token from a request
type TokenReader interface {
	GetTokenFromRequest(r *http.Request) (string, error)
}

// SessionGetter resolves a session token to a user id
type SessionGetter interface {
	Get(ctx context.Context, token string) (int64, error)
}

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

type sessionKey struct{}

// SessionMiddleware attaches the visitor's session to the request context.
// Requests without a valid session are redirected to LoginPath unless their
// path is one of publicPaths.
func SessionMiddleware(tokens TokenReader, store SessionGetter, publicPaths ...string) func(http.Handler) http.Handler {
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if session, ok := resolveSession(ctx, r, tokens, store); ok {
				ctx = WithSession(ctx, session)
			} else if _, isPublic := public[r.URL.Path]; !isPublic {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveSession(ctx context.Context, r *http.Request, tokens TokenReader, store SessionGetter) (models.Session, bool) {
	token, err := tokens.GetTokenFromRequest(r)
	if err != nil {
		return models.Session{}, false
	}

	userID, err := store.Get(ctx, token)
	if err != nil {
		if !errors.Is(err, sessions.ErrSessionNotFound) {
			logger.Log.Errorw("session lookup failed", "err", err)
		}
		return models.Session{}, false
	}

	return models.Session{UserID: userID, Token: token}, true
}

// SessionFromContext returns the session attached by SessionMiddleware.
func SessionFromContext(ctx context.Context) (models.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(models.Session)
	return session, ok
}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}
