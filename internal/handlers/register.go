package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-inventory/internal/services"
	"github.com/sbilibin2017/gw-inventory/internal/views"
)

//go:generate mockgen -source=register.go -destination=mock_register.go -package=handlers

// Registerer defines the interface that the registration service must implement.
type Registerer interface {
	Register(ctx context.Context, username, email, password, confirmPassword string) error
}

// NewRegisterPageHandler renders the registration form.
func NewRegisterPageHandler(rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, rnd, http.StatusOK, views.PageRegister, views.RegisterPage{
			Base: newBase(w, r, "Register"),
		})
	}
}

// NewRegisterHandler creates an account and redirects to /login.
func NewRegisterHandler(svc Registerer, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.PostFormValue("username")
		email := r.PostFormValue("email")

		err := svc.Register(r.Context(), username, email,
			r.PostFormValue("password"), r.PostFormValue("confirm_password"))
		if err == nil {
			redirectWithFlash(w, r, "/login", flashSuccess, "Registration successful. Please log in.")
			return
		}

		var (
			status   int
			messages []string
			verr     *services.ValidationError
		)
		switch {
		case errors.As(err, &verr):
			status, messages = http.StatusUnprocessableEntity, verr.Messages
		case errors.Is(err, services.ErrPasswordMismatch):
			status, messages = http.StatusUnprocessableEntity, []string{"Passwords do not match"}
		case errors.Is(err, services.ErrUserAlreadyExists):
			status, messages = http.StatusConflict, []string{"Username or email already exists"}
		default:
			internalError(w, r, rnd, err)
			return
		}

		render(w, rnd, status, views.PageRegister, views.RegisterPage{
			Base:     newBase(w, r, "Register"),
			Username: username,
			Email:    email,
			Errors:   messages,
		})
	}
}
