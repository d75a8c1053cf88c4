package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-inventory/internal/logger"
	"github.com/sbilibin2017/gw-inventory/internal/middlewares"
	"github.com/sbilibin2017/gw-inventory/internal/models"
	"github.com/sbilibin2017/gw-inventory/internal/services"
	"github.com/sbilibin2017/gw-inventory/internal/views"
)

//go:generate mockgen -source=login.go -destination=mock_login.go -package=handlers

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, identifier, password string) (*models.UserDB, error)
}

// SessionStore creates and deletes sessions.
type SessionStore interface {
	Create(ctx context.Context, userID int64) (string, error)
	Delete(ctx context.Context, token string) error
}

// SessionCookie writes and clears the session cookie.
type SessionCookie interface {
	Write(w http.ResponseWriter, token string)
	Clear(w http.ResponseWriter)
}

const invalidCredentials = "Invalid username/email or password"

// NewLoginPageHandler renders the login form.
func NewLoginPageHandler(rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, rnd, http.StatusOK, views.PageLogin, views.LoginPage{
			Base: newBase(w, r, "Log in"),
		})
	}
}

// NewLoginHandler authenticates the posted credentials, starts a session and
// redirects to /. The session is only touched on success.
func NewLoginHandler(svc Loginer, store SessionStore, cookie SessionCookie, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identifier := r.PostFormValue("username_or_email")
		password := r.PostFormValue("password")

		user, err := svc.Login(r.Context(), identifier, password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				render(w, rnd, http.StatusUnauthorized, views.PageLogin, views.LoginPage{
					Base:       newBase(w, r, "Log in"),
					Identifier: identifier,
					Error:      invalidCredentials,
				})
				return
			}
			internalError(w, r, rnd, err)
			return
		}

		token, err := store.Create(r.Context(), user.ID)
		if err != nil {
			internalError(w, r, rnd, err)
			return
		}

		cookie.Write(w, token)
		logger.Log.Infow("user logged in", "user_id", user.ID)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// NewLogoutHandler ends the current session and redirects to /.
func NewLogoutHandler(store SessionStore, cookie SessionCookie) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if session, ok := middlewares.SessionFromContext(r.Context()); ok {
			if err := store.Delete(r.Context(), session.Token); err != nil {
				logger.Log.Errorw("failed to delete session", "user_id", session.UserID, "err", err)
			}
		}

		cookie.Clear(w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
