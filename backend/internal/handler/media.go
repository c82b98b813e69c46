package handler

import (
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/itchan-dev/wall/backend/internal/storage/fs"
	internal_errors "github.com/itchan-dev/wall/shared/errors"
	"github.com/itchan-dev/wall/shared/logger"
	"github.com/itchan-dev/wall/shared/utils"
)

// Media serves a locally stored object to holders of a valid signed link.
func (h *Handler) Media(w http.ResponseWriter, r *http.Request) {
	if h.media == nil {
		utils.WriteErrorAndStatusCode(w, internal_errors.NotFound("Not found"))
		return
	}

	key := chi.URLParam(r, "key")
	q := r.URL.Query()
	file, err := h.media.Open(key, q.Get("expires"), q.Get("sig"))
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrBadSignature):
			utils.WriteErrorAndStatusCode(w, internal_errors.Verification("Link is invalid or expired"))
		case errors.Is(err, fs.ErrBadKey), errors.Is(err, os.ErrNotExist):
			utils.WriteErrorAndStatusCode(w, internal_errors.NotFound("Not found"))
		default:
			utils.WriteErrorAndStatusCode(w, err)
		}
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		logger.Log.Error("failed to stat media", "key", key, "error", err)
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=300")
	http.ServeContent(w, r, key, stat.ModTime(), file)
}
