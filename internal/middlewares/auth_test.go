package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-inventory/internal/models"
	"github.com/sbilibin2017/gw-inventory/internal/sessions"
)

func TestSessionMiddleware(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		token        string
		tokenErr     error
		lookup       bool
		userID       int64
		storeErr     error
		wantStatus   int
		wantLocation string
		wantSession  *models.Session
	}{
		{
			name:        "valid session",
			path:        "/",
			token:       "tok",
			lookup:      true,
			userID:      7,
			wantStatus:  http.StatusOK,
			wantSession: &models.Session{UserID: 7, Token: "tok"},
		},
		{
			name:         "no cookie redirects to login",
			path:         "/add",
			tokenErr:     sessions.ErrSessionNotFound,
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/login",
		},
		{
			name:         "expired session redirects to login",
			path:         "/",
			token:        "old",
			lookup:       true,
			storeErr:     sessions.ErrSessionNotFound,
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/login",
		},
		{
			name:         "store failure redirects to login",
			path:         "/",
			token:        "tok",
			lookup:       true,
			storeErr:     errors.New("redis down"),
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/login",
		},
		{
			name:       "login page is public",
			path:       "/login",
			tokenErr:   sessions.ErrSessionNotFound,
			wantStatus: http.StatusOK,
		},
		{
			name:       "register page is public",
			path:       "/register",
			tokenErr:   sessions.ErrSessionNotFound,
			wantStatus: http.StatusOK,
		},
		{
			name:        "logged in user on public page keeps session",
			path:        "/login",
			token:       "tok",
			lookup:      true,
			userID:      3,
			wantStatus:  http.StatusOK,
			wantSession: &models.Session{UserID: 3, Token: "tok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			tokens := NewMockTokenReader(ctrl)
			store := NewMockSessionGetter(ctrl)

			tokens.EXPECT().GetTokenFromRequest(gomock.Any()).Return(tt.token, tt.tokenErr)
			if tt.lookup {
				store.EXPECT().Get(gomock.Any(), tt.token).Return(tt.userID, tt.storeErr)
			}

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				session, ok := SessionFromContext(r.Context())
				if tt.wantSession != nil {
					assert.True(t, ok)
					assert.Equal(t, *tt.wantSession, session)
				} else {
					assert.False(t, ok)
				}
				w.WriteHeader(http.StatusOK)
			})

			handler := SessionMiddleware(tokens, store, "/login", "/register")(next)
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, nextCalled)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rr.Header().Get("Location"))
			}
		})
	}
}
