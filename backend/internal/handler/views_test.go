package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itchan-dev/wall/shared/domain"
)

func TestRecordView(t *testing.T) {
	tests := []struct {
		name string
		body string
		want domain.ViewSource
	}{
		{"raw source", `{"source":"home"}`, "home"},
		{"qr code", `{"qrcode":"flyer"}`, "qrcode-flyer"},
		{"source wins", `{"source":"home","qrcode":"flyer"}`, "home"},
		{"nothing", `{}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, deps := newTestHandler(nil)
			var got domain.ViewSource = "unset"
			deps.views.RecordFunc = func(ctx context.Context, source domain.ViewSource) { got = source }

			rr := httptest.NewRecorder()
			h.RecordView(rr, createRequest(t, http.MethodPost, "/v1/views", []byte(tt.body)))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("invalid json", func(t *testing.T) {
		h, _ := newTestHandler(nil)
		rr := httptest.NewRecorder()
		h.RecordView(rr, createRequest(t, http.MethodPost, "/v1/views", []byte(`nope`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
