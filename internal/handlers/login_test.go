package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-inventory/internal/models"
	"github.com/sbilibin2017/gw-inventory/internal/services"
)

func TestLoginPageHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	NewLoginPageHandler(newRenderer(t)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `name="username_or_email"`)
}

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockLoginer(ctrl)
	mockStore := NewMockSessionStore(ctrl)
	mockCookie := NewMockSessionCookie(ctrl)
	handler := NewLoginHandler(mockSvc, mockStore, mockCookie, newRenderer(t))

	tests := []struct {
		name         string
		form         url.Values
		mockSetup    func()
		expectedCode int
		expectedLoc  string
		contains     []string
	}{
		{
			name: "success",
			form: url.Values{"username_or_email": {"john@example.com"}, "password": {"pass123"}},
			mockSetup: func() {
				gomock.InOrder(
					mockSvc.EXPECT().
						Login(gomock.Any(), "john@example.com", "pass123").
						Return(&models.UserDB{ID: 7, Username: "john"}, nil),
					mockStore.EXPECT().Create(gomock.Any(), int64(7)).Return("SESSION", nil),
					mockCookie.EXPECT().Write(gomock.Any(), "SESSION"),
				)
			},
			expectedCode: http.StatusSeeOther,
			expectedLoc:  "/",
		},
		{
			name: "invalid credentials",
			form: url.Values{"username_or_email": {"john"}, "password": {"wrong"}},
			mockSetup: func() {
				mockSvc.EXPECT().
					Login(gomock.Any(), "john", "wrong").
					Return(nil, services.ErrInvalidCredentials)
			},
			expectedCode: http.StatusUnauthorized,
			contains:     []string{"Invalid username/email or password", `value="john"`},
		},
		{
			name: "internal error",
			form: url.Values{"username_or_email": {"john"}, "password": {"pass123"}},
			mockSetup: func() {
				mockSvc.EXPECT().
					Login(gomock.Any(), "john", "pass123").
					Return(nil, errors.New("database error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name: "session store error",
			form: url.Values{"username_or_email": {"john"}, "password": {"pass123"}},
			mockSetup: func() {
				mockSvc.EXPECT().
					Login(gomock.Any(), "john", "pass123").
					Return(&models.UserDB{ID: 7}, nil)
				mockStore.EXPECT().Create(gomock.Any(), int64(7)).Return("", errors.New("redis down"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, newFormRequest(http.MethodPost, "/login", tt.form))

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, tt.expectedLoc, rr.Header().Get("Location"))
			for _, s := range tt.contains {
				assert.Contains(t, rr.Body.String(), s)
			}
		})
	}
}

func TestLogoutHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockSessionStore(ctrl)
	mockCookie := NewMockSessionCookie(ctrl)
	handler := NewLogoutHandler(mockStore, mockCookie)

	t.Run("with session", func(t *testing.T) {
		mockStore.EXPECT().Delete(gomock.Any(), "SESSION").Return(nil)
		mockCookie.EXPECT().Clear(gomock.Any())

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, withSession(httptest.NewRequest(http.MethodGet, "/logout", nil), 7, "SESSION"))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/", rr.Header().Get("Location"))
	})

	t.Run("store error still clears cookie", func(t *testing.T) {
		mockStore.EXPECT().Delete(gomock.Any(), "SESSION").Return(errors.New("redis down"))
		mockCookie.EXPECT().Clear(gomock.Any())

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, withSession(httptest.NewRequest(http.MethodGet, "/logout", nil), 7, "SESSION"))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
	})

	t.Run("without session", func(t *testing.T) {
		mockCookie.EXPECT().Clear(gomock.Any())

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/logout", nil))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
	})
}
