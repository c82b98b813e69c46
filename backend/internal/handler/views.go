package handler

import (
	"net/http"

	"github.com/itchan-dev/wall/shared/api"
	"github.com/itchan-dev/wall/shared/utils"
)

const qrcodeSourcePrefix = "qrcode-"

// RecordView logs a page view. It answers success even when nothing was recorded.
func (h *Handler) RecordView(w http.ResponseWriter, r *http.Request) {
	var body api.RecordViewRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	source := body.Source
	if source == "" && body.QRCode != "" {
		source = qrcodeSourcePrefix + body.QRCode
	}
	h.views.Record(r.Context(), source)
	writeOK(w, http.StatusOK, "")
}
