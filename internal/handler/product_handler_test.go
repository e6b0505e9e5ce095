package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pulse-shop/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductHandler_List(t *testing.T) {
	testProducts := []model.Product{
		{ID: 2, Name: "Glass Lantern", PriceCents: 8200, Stock: 11, Category: "Home", CreatedAt: time.Now()},
		{ID: 1, Name: "Aurora Hoodie", PriceCents: 6500, Stock: 18, Category: "Apparel", CreatedAt: time.Now()},
	}

	tests := []struct {
		name           string
		queryParams    string
		expectedLimit  int
		expectedOffset int
		mockReturn     []model.Product
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "No paging returns everything",
			queryParams:    "",
			expectedLimit:  0,
			expectedOffset: 0,
			mockReturn:     testProducts,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Custom pagination",
			queryParams:    "?limit=5&offset=10",
			expectedLimit:  5,
			expectedOffset: 10,
			mockReturn:     testProducts,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Invalid limit",
			queryParams:    "?limit=invalid",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Negative offset",
			queryParams:    "?offset=-3",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Service error",
			queryParams:    "",
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, zerolog.Nop())

			if tt.expectService {
				mockService.On("List", mock.Anything, tt.expectedLimit, tt.expectedOffset).Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/products"+tt.queryParams, nil)
			w := httptest.NewRecorder()

			handler.List(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var products []model.Product
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
				assert.Len(t, products, len(tt.mockReturn))
			}

			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestProductHandler_GetByID(t *testing.T) {
	product := &model.Product{ID: 5, Name: "Signal Headphones", PriceCents: 12900, Stock: 9}

	tests := []struct {
		name           string
		id             string
		mockReturn     *model.Product
		mockError      error
		expectService  bool
		expectedStatus int
		expectedCode   string
	}{
		{name: "Found", id: "5", mockReturn: product, expectService: true, expectedStatus: http.StatusOK},
		{name: "Not found", id: "99", mockError: model.ErrProductNotFound, expectService: true, expectedStatus: http.StatusNotFound, expectedCode: model.ErrCodeProductNotFound},
		{name: "Non numeric id", id: "abc", expectedStatus: http.StatusBadRequest, expectedCode: model.ErrCodeInvalidPayload},
		{name: "Zero id", id: "0", expectedStatus: http.StatusBadRequest, expectedCode: model.ErrCodeInvalidPayload},
		{name: "Service error", id: "5", mockError: errors.New("timeout"), expectService: true, expectedStatus: http.StatusInternalServerError, expectedCode: model.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, zerolog.Nop())

			if tt.expectService {
				mockService.On("GetByID", mock.Anything, mock.AnythingOfType("int64")).Return(tt.mockReturn, tt.mockError)
			}

			req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/products/"+tt.id, nil), "id", tt.id)
			w := httptest.NewRecorder()

			handler.GetByID(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				var resp model.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedCode, resp.Code)
			} else {
				var got model.Product
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, product.Name, got.Name)
			}
		})
	}
}

func TestProductHandler_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, zerolog.Nop())

		mockService.On("Create", mock.Anything, mock.MatchedBy(func(req *model.CreateProductRequest) bool {
			return req.Name == "Arc Desk Lamp" && req.Price.Equal(decimal.RequireFromString("76.00")) && *req.Stock == 13
		})).Return(int64(9), nil)

		body := `{"name":"Arc Desk Lamp","description":"Lamp","price":76.00,"stock":13,"image_url":"https://example.com/lamp.png","category":"Home"}`
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/admin/products", bytes.NewBufferString(body)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":9}`, w.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("Validation failure", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, zerolog.Nop())

		mockService.On("Create", mock.Anything, mock.Anything).Return(int64(0), model.NewInvalidPayload("name: is required"))

		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/admin/products", bytes.NewBufferString(`{}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"error":"name: is required"`)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, zerolog.Nop())

		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/admin/products", bytes.NewBufferString(`[1,2`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestProductHandler_Update(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		body           string
		mockError      error
		expectService  bool
		expectedStatus int
		expectedBody   string
	}{
		{name: "Success", id: "3", body: `{"stock":5}`, expectService: true, expectedStatus: http.StatusOK, expectedBody: `{"status":"ok"}`},
		{name: "No updates", id: "3", body: `{}`, mockError: model.ErrNoUpdatesProvided, expectService: true, expectedStatus: http.StatusBadRequest},
		{name: "Negative stock", id: "3", body: `{"stock":-1}`, mockError: model.NewInvalidPayload("stock: must be 0 or greater"), expectService: true, expectedStatus: http.StatusBadRequest},
		{name: "Missing product", id: "404", body: `{"name":"x"}`, mockError: model.ErrProductNotFound, expectService: true, expectedStatus: http.StatusNotFound},
		{name: "Bad id", id: "x", body: `{"name":"x"}`, expectedStatus: http.StatusBadRequest},
		{name: "Malformed JSON", id: "3", body: `{`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, zerolog.Nop())

			if tt.expectService {
				mockService.On("Update", mock.Anything, mock.AnythingOfType("int64"), mock.AnythingOfType("*model.UpdateProductRequest")).Return(tt.mockError)
			}

			req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/admin/products/"+tt.id, bytes.NewBufferString(tt.body)), "id", tt.id)
			w := httptest.NewRecorder()

			handler.Update(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
			if !tt.expectService {
				mockService.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestProductHandler_Delete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockProductService)
		mockService.On("Delete", mock.Anything, int64(4)).Return(nil)
		handler := NewProductHandler(mockService, zerolog.Nop())

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/admin/products/4", nil), "id", "4")
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"deleted"}`, w.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		mockService := new(MockProductService)
		mockService.On("Delete", mock.Anything, int64(4)).Return(model.ErrProductNotFound)
		handler := NewProductHandler(mockService, zerolog.Nop())

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/admin/products/4", nil), "id", "4")
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
