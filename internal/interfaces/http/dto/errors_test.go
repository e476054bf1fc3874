package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInsufficientStock, http.StatusBadRequest},
		{ErrCodeInvalidState, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		total      int64
		pageSize   int
		totalPages int
	}{
		{0, 20, 0},
		{20, 20, 1},
		{21, 20, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta([]string{}, tt.total, 1, tt.pageSize)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, tt.totalPages, resp.Meta.TotalPages)
	}
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithDetails(ErrCodeInsufficientStock, "insufficient stock", "req-1",
		StockShortfall{Current: "20000", Requested: "30000"})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"error": {
			"code": "INSUFFICIENT_STOCK",
			"message": "insufficient stock",
			"request_id": "req-1",
			"details": {"current": "20000", "requested": "30000"}
		}
	}`, string(raw))
}

func TestNewValidationErrorResponse(t *testing.T) {
	bare := NewValidationErrorResponse("bad", "", nil)
	assert.Nil(t, bare.Error.Details)

	withFields := NewValidationErrorResponse("bad", "", []ValidationDetail{{Field: "unit", Message: "This field is required"}})
	assert.Equal(t, ErrCodeValidation, withFields.Error.Code)
	assert.Len(t, withFields.Error.Details, 1)
}
