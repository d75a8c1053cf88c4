package main

import (
	"bytes"
	"context"
	"flag"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-inventory/internal/sessions"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	assert.Equal(t, "config.env", parseFlags())
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env"}
	assert.Equal(t, "myconfig.env", parseFlags())
}

func TestPrintBuildInfo_Output(t *testing.T) {
	// Capture stdout
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2025-09-26"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)

	assert.Equal(t, "Starting service version v1.0.0, commit abcd1234, build 2025-09-26\n", buf.String())
}

// newTestRouter builds the router over sqlmock with signed cookie sessions.
func newTestRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock, *sessions.JWTStore) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	store := sessions.NewJWTStore("testsecret", time.Hour)
	router, err := newRouter(dependencies{
		db:         sqlx.NewDb(mockDB, "sqlmock"),
		store:      store,
		cookie:     sessions.NewCookie(),
		swaggerURL: "/swagger/doc.json",
	})
	require.NoError(t, err)

	return router, mock, store
}

func loggedIn(t *testing.T, store *sessions.JWTStore, req *http.Request) *http.Request {
	t.Helper()
	token, err := store.Create(context.Background(), 1)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: token})
	return req
}

func TestRouter_SessionGate(t *testing.T) {
	router, _, _ := newTestRouter(t)

	tests := []struct {
		path         string
		expectedCode int
		expectedLoc  string
	}{
		{"/", http.StatusSeeOther, "/login"},
		{"/categories", http.StatusSeeOther, "/login"},
		{"/api/items", http.StatusSeeOther, "/login"},
		{"/login", http.StatusOK, ""},
		{"/register", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, tt.expectedLoc, rr.Header().Get("Location"))
		})
	}
}

func TestRouter_APIItems(t *testing.T) {
	router, mock, store := newTestRouter(t)

	rows := sqlmock.NewRows([]string{
		"id", "name", "quantity", "price", "description", "image_url",
		"category_id", "category_name", "supplier", "date_added",
	}).AddRow(1, "Hammer", 3, "12.50", nil, nil, nil, nil, nil, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	mock.ExpectQuery("SELECT .* FROM items").WillReturnRows(rows)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, loggedIn(t, store, httptest.NewRequest(http.MethodGet, "/api/items", nil)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t,
		`[{"id":1,"name":"Hammer","quantity":3,"price":12.5,"description":null,"image_url":null,"category":null,"supplier":null,"date_added":"2024-05-01 10:00:00"}]`,
		rr.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_WriteCommits(t *testing.T) {
	router, mock, store := newTestRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO categories").
		WithArgs("Paint").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectCommit()

	form := url.Values{"name": {"Paint"}}
	req := httptest.NewRequest(http.MethodPost, "/categories/add", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, loggedIn(t, store, req))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/categories", rr.Header().Get("Location"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_RejectedWriteRollsBack(t *testing.T) {
	router, mock, store := newTestRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name FROM categories").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectRollback()

	form := url.Values{"name": {"   "}}
	req := httptest.NewRequest(http.MethodPost, "/categories/add", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, loggedIn(t, store, req))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "Name is required")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_UpdateMissingItemIsNotFound(t *testing.T) {
	router, mock, store := newTestRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM items i .* WHERE i.id = \\$1").
		WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	form := url.Values{"name": {"Hammer"}, "quantity": {"abc"}}
	req := httptest.NewRequest(http.MethodPost, "/update/999", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, loggedIn(t, store, req))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Item not found.")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_OverPrecisePriceRejected(t *testing.T) {
	router, mock, store := newTestRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name FROM categories").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectRollback()

	form := url.Values{"name": {"Bolt"}, "quantity": {"1"}, "price": {"1.23456"}}
	req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, loggedIn(t, store, req))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "Price must have at most 4 decimal places")
	assert.NoError(t, mock.ExpectationsWereMet())
}
