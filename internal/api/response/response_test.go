package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isdelr/task-manager-be/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestList_IncludesZeroCount(t *testing.T) {
	rec := httptest.NewRecorder()
	List(rec, 0, map[string]any{"tasks": []string{}})

	body := decode(t, rec)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(0), body["count"])
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", apperr.NotFound("Task not found"), http.StatusNotFound, "Task not found"},
		{"forbidden", apperr.Forbidden("Access denied"), http.StatusForbidden, "Access denied"},
		{"expired", apperr.ExpiredToken(errors.New("exp")), http.StatusUnauthorized, "Authentication token has expired"},
		{"foreign error hides detail", errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, httptest.NewRequest(http.MethodGet, "/x", nil), tt.err)

			body := decode(t, rec)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMsg, body["message"])
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestError_ValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, httptest.NewRequest(http.MethodPost, "/x", nil), apperr.Validation([]apperr.FieldError{
		{Field: "title", Message: "Title is required"},
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Validation error","errors":[{"field":"title","message":"Title is required"}]}`, rec.Body.String())
}
