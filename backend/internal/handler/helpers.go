package handler

import (
	"net/http"
	"strconv"

	"github.com/itchan-dev/wall/shared/api"
	"github.com/itchan-dev/wall/shared/utils"
)

// maxPageSize caps page_size so a single request can't sign the whole wall.
const maxPageSize = 100

func writeOK(w http.ResponseWriter, status int, message string) {
	utils.WriteJSON(w, status, api.Result{Success: true, Message: message})
}

// intQuery reads a positive integer query parameter, falling back to def when absent or malformed.
func intQuery(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// pagination returns the requested page and page size. page_size defaults to def and is capped.
func pagination(r *http.Request, def int) (page, pageSize int) {
	page = intQuery(r, "page", 1)
	pageSize = min(intQuery(r, "page_size", def), maxPageSize)
	return page, pageSize
}
