package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/itchan-dev/wall/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeValidate(t *testing.T) {
	type TestStruct struct {
		Field1 string `json:"field1" validate:"required"`
		Field2 int    `json:"field2"`
	}

	tests := []struct {
		name        string
		requestBody string
		wantMessage string
	}{
		{name: "valid", requestBody: `{"field1": "value", "field2": 123}`},
		{name: "valid without optional", requestBody: `{"field1": "value"}`},
		{name: "invalid json", requestBody: `{"field1": `, wantMessage: "Body is invalid json"},
		{name: "missing required", requestBody: `{"field2": 1}`, wantMessage: "Required fields missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target TestStruct
			err := DecodeValidate(io.NopCloser(strings.NewReader(tt.requestBody)), &target)
			if tt.wantMessage == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantMessage, err.Error())
			assert.Equal(t, http.StatusBadRequest, errors.StatusCode(err))
		})
	}
}

func TestWriteErrorAndStatusCode(t *testing.T) {
	t.Run("status error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteErrorAndStatusCode(rr, errors.NotFound("Submission not found"))
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"success":false,"message":"Submission not found"}`, rr.Body.String())
	})

	t.Run("wrapped status error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteErrorAndStatusCode(rr, fmt.Errorf("ctx: %w", errors.Validation("bad")))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"success":false,"message":"bad"}`, rr.Body.String())
	})

	t.Run("internal error hides details", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteErrorAndStatusCode(rr, fmt.Errorf("pq: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "Internal server error", body["message"])
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	})
}

func TestHMAC_Web(t *testing.T) {
	key := []byte("k")
	sig := SignHMAC(key, "a.png|100")
	assert.True(t, VerifyHMAC(key, "a.png|100", sig))
	assert.False(t, VerifyHMAC(key, "a.png|101", sig))
	assert.False(t, VerifyHMAC([]byte("other"), "a.png|100", sig))
	assert.False(t, VerifyHMAC(key, "a.png|100", "zz"))
}

func TestGenerateRandomString_Web(t *testing.T) {
	s := GenerateRandomString(8, Base36)
	assert.Len(t, s, 8)
	for _, r := range s {
		assert.Contains(t, Base36, string(r))
	}
	assert.NotEqual(t, s, GenerateRandomString(8, Base36))
}
