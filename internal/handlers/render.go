package handlers

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sbilibin2017/gw-inventory/internal/logger"
	"github.com/sbilibin2017/gw-inventory/internal/middlewares"
	"github.com/sbilibin2017/gw-inventory/internal/views"
)

//go:generate mockgen -source=render.go -destination=mock_render.go -package=handlers

// Renderer renders an HTML page.
type Renderer interface {
	Render(w http.ResponseWriter, status int, page string, data any) error
}

const (
	flashCookie  = "flash"
	flashSuccess = "success"
)

// render writes the page, falling back to a plain 500 when rendering fails.
func render(w http.ResponseWriter, rnd Renderer, status int, page string, data any) {
	if err := rnd.Render(w, status, page, data); err != nil {
		logger.Log.Errorw("failed to render page", "page", page, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// renderError shows the error page with the given status.
func renderError(w http.ResponseWriter, r *http.Request, rnd Renderer, status int, message string) {
	render(w, rnd, status, views.PageError, views.ErrorPage{
		Base:    newBase(w, r, http.StatusText(status)),
		Status:  status,
		Message: message,
	})
}

// internalError logs err and shows the 500 page.
func internalError(w http.ResponseWriter, r *http.Request, rnd Renderer, err error) {
	logger.Log.Errorw("internal server error", "uri", r.RequestURI, "request_id", middlewares.RequestIDFromContext(r.Context()), "err", err)
	renderError(w, r, rnd, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

// newBase fills the layout data and consumes any pending flash message.
func newBase(w http.ResponseWriter, r *http.Request, title string) views.Base {
	_, loggedIn := middlewares.SessionFromContext(r.Context())
	kind, message := popFlash(w, r)
	return views.Base{
		Title:     title,
		LoggedIn:  loggedIn,
		Flash:     message,
		FlashKind: kind,
	}
}

// redirectWithFlash stores a one-shot message and redirects with 303.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, to, kind, message string) {
	setFlash(w, kind, message)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func setFlash(w http.ResponseWriter, kind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(kind + "|" + message)),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func popFlash(w http.ResponseWriter, r *http.Request) (kind, message string) {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return "", ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return "", ""
	}
	kind, message, ok := strings.Cut(string(raw), "|")
	if !ok {
		return "", ""
	}
	return kind, message
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
