package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-inventory/internal/models"
	"github.com/sbilibin2017/gw-inventory/internal/repositories"
	"github.com/sbilibin2017/gw-inventory/internal/services"
)

var testCategories = []models.CategoryDB{{ID: 1, Name: "Tools"}, {ID: 2, Name: "Garden"}}

func TestAddItemPageHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCategories := NewMockCategoryLister(ctrl)

	t.Run("renders form", func(t *testing.T) {
		mockCategories.EXPECT().List(gomock.Any()).Return(testCategories, nil)

		rr := httptest.NewRecorder()
		NewAddItemPageHandler(mockCategories, newRenderer(t), true).
			ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/add", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `action="/add"`)
		assert.Contains(t, rr.Body.String(), "Garden")
		assert.Contains(t, rr.Body.String(), `name="image"`)
	})

	t.Run("uploads disabled", func(t *testing.T) {
		mockCategories.EXPECT().List(gomock.Any()).Return(nil, nil)

		rr := httptest.NewRecorder()
		NewAddItemPageHandler(mockCategories, newRenderer(t), false).
			ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/add", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotContains(t, rr.Body.String(), `name="image"`)
	})

	t.Run("category error", func(t *testing.T) {
		mockCategories.EXPECT().List(gomock.Any()).Return(nil, errors.New("db down"))

		rr := httptest.NewRecorder()
		NewAddItemPageHandler(mockCategories, newRenderer(t), false).
			ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/add", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestAddItemHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockItemCreator(ctrl)
	mockCategories := NewMockCategoryLister(ctrl)
	handler := NewAddItemHandler(mockSvc, mockCategories, newRenderer(t), false)

	categoryID := int64(2)
	supplier := "ACME"

	listed := func() {
		mockCategories.EXPECT().List(gomock.Any()).Return(testCategories, nil)
	}

	tests := []struct {
		name         string
		form         url.Values
		mockSetup    func()
		expectedCode int
		expectedLoc  string
		expectedFlsh string
		contains     []string
	}{
		{
			name: "success",
			form: url.Values{
				"name":        {" Hammer "},
				"quantity":    {"3"},
				"price":       {"12.50"},
				"description": {""},
				"category_id": {"2"},
				"supplier":    {"ACME"},
			},
			mockSetup: func() {
				listed()
				mockSvc.EXPECT().
					Create(gomock.Any(), models.ItemInput{
						Name:       "Hammer",
						Quantity:   3,
						Price:      decimal.NewNullDecimal(decimal.RequireFromString("12.50")),
						CategoryID: &categoryID,
						Supplier:   &supplier,
					}, nil).
					Return(int64(10), nil)
			},
			expectedCode: http.StatusSeeOther,
			expectedLoc:  "/",
			expectedFlsh: "success|Item added successfully!",
		},
		{
			name:         "parse errors",
			form:         url.Values{"name": {"Hammer"}, "quantity": {"many"}, "price": {"cheap"}},
			mockSetup:    listed,
			expectedCode: http.StatusUnprocessableEntity,
			contains:     []string{"Quantity must be a whole number", "Price must be a number", `value="Hammer"`},
		},
		{
			name:         "missing quantity",
			form:         url.Values{"name": {"Hammer"}},
			mockSetup:    listed,
			expectedCode: http.StatusUnprocessableEntity,
			contains:     []string{"Quantity is required"},
		},
		{
			name:         "missing name reported with quantity error",
			form:         url.Values{"name": {"  "}, "quantity": {"abc"}},
			mockSetup:    listed,
			expectedCode: http.StatusUnprocessableEntity,
			contains:     []string{"Name is required", "Quantity must be a whole number"},
		},
		{
			name: "validation error",
			form: url.Values{"name": {"Hammer"}, "quantity": {"-1"}},
			mockSetup: func() {
				listed()
				mockSvc.EXPECT().
					Create(gomock.Any(), gomock.Any(), nil).
					Return(int64(0), &services.ValidationError{Messages: []string{"Quantity must be at least 0"}})
			},
			expectedCode: http.StatusUnprocessableEntity,
			contains:     []string{"Quantity must be at least 0", "Garden"},
		},
		{
			name: "write failure keeps the form",
			form: url.Values{"name": {"Hammer"}, "quantity": {"1"}, "category_id": {"2"}},
			mockSetup: func() {
				listed()
				mockSvc.EXPECT().
					Create(gomock.Any(), gomock.Any(), nil).
					Return(int64(0), fmt.Errorf("save: %w", repositories.ErrReferenced))
			},
			expectedCode: http.StatusInternalServerError,
			contains:     []string{"An error occurred while adding the item.", `action="/add"`, `value="Hammer"`},
		},
		{
			name: "category error",
			form: url.Values{"name": {"Hammer"}, "quantity": {"1"}},
			mockSetup: func() {
				mockCategories.EXPECT().List(gomock.Any()).Return(nil, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
			contains:     []string{"Something went wrong."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, newFormRequest(http.MethodPost, "/add", tt.form))

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, tt.expectedLoc, rr.Header().Get("Location"))
			assert.Equal(t, tt.expectedFlsh, flashFrom(t, rr))
			for _, s := range tt.contains {
				assert.Contains(t, rr.Body.String(), s)
			}
		})
	}
}

func TestAddItemHandler_Image(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockItemCreator(ctrl)
	mockCategories := NewMockCategoryLister(ctrl)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Hammer"))
	require.NoError(t, mw.WriteField("quantity", "1"))

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="hammer.png"`)
	header.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	mockSvc.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Not(gomock.Nil())).
		DoAndReturn(func(_ context.Context, in models.ItemInput, img *models.ImageUpload) (int64, error) {
			assert.Equal(t, "Hammer", in.Name)
			assert.Equal(t, "hammer.png", img.Filename)
			assert.Equal(t, "image/png", img.ContentType)
			assert.Equal(t, int64(len("png-bytes")), img.Size)

			data, err := io.ReadAll(img.Body)
			assert.NoError(t, err)
			assert.Equal(t, "png-bytes", string(data))
			return 1, nil
		})

	mockCategories.EXPECT().List(gomock.Any()).Return(testCategories, nil)

	req := httptest.NewRequest(http.MethodPost, "/add", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rr := httptest.NewRecorder()
	NewAddItemHandler(mockSvc, mockCategories, newRenderer(t), true).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
}
