package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/solenne/boutique/internal/errors"
)

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
		rec := httptest.NewRecorder()

		var dst payload
		assert.True(t, DecodeJSON(rec, req, &dst))
		assert.Equal(t, "x", dst.Name)
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":1}`))
		rec := httptest.NewRecorder()

		var dst payload
		assert.False(t, DecodeJSON(rec, req, &dst))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{broken`))
		rec := httptest.NewRecorder()

		var dst payload
		assert.False(t, DecodeJSON(rec, req, &dst))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestWriteAppError_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: apperrors.NotFound("gone"), wantStatus: http.StatusNotFound},
		{name: "conflict", err: apperrors.Conflict("dup"), wantStatus: http.StatusConflict},
		{name: "validation", err: apperrors.Validation("bad"), wantStatus: http.StatusBadRequest},
		{name: "internal", err: apperrors.Internal("boom", nil), wantStatus: http.StatusInternalServerError},
		{name: "plain error", err: assert.AnError, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			WriteAppError(rec, tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
