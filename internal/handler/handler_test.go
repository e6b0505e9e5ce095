package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pulse-shop/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{model.ErrInvalidPayload, http.StatusBadRequest},
		{model.NewInvalidPayload("items: is required"), http.StatusBadRequest},
		{model.ErrNoUpdatesProvided, http.StatusBadRequest},
		{model.ErrInsufficientStock, http.StatusBadRequest},
		{model.ErrProductNotFound, http.StatusNotFound},
		{model.ErrInvalidCredentials, http.StatusUnauthorized},
		{model.ErrUnauthorized, http.StatusUnauthorized},
		{model.ErrDuplicateRequest, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", model.ErrInsufficientStock), http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
		{model.NewDomainError("SOMETHING_NEW", "?"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, statusFor(tt.err))
		})
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{query: "", want: 7},
		{query: "limit=0", want: 0},
		{query: "limit=25", want: 25},
		{query: "limit=-1", wantErr: true},
		{query: "limit=ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/products?"+tt.query, nil)

			got, err := queryInt(req, "limit", 7)

			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidPayload)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusCreated, map[string]int64{"id": 3})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":3}`, w.Body.String())
}

func TestWriteJSON_UnencodableValueKeepsStatus(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusOK, map[string]any{"ch": make(chan int)})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Empty(t, w.Body.String())
}
