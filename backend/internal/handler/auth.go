package handler

import (
	"net/http"

	"github.com/itchan-dev/wall/shared/api"
	internal_errors "github.com/itchan-dev/wall/shared/errors"
	mw "github.com/itchan-dev/wall/shared/middleware"
	"github.com/itchan-dev/wall/shared/utils"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	token, expires, err := h.auth.Login(r.Context(), body.Password)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	h.cookies.SetSessionCookie(w, token, expires)
	writeOK(w, http.StatusOK, "")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearSessionCookie(w)
	writeOK(w, http.StatusOK, "")
}

// Session reports when the current admin session runs out. AdminOnly has already checked it.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetSessionFromContext(r)
	if claims == nil {
		utils.WriteErrorAndStatusCode(w, internal_errors.Auth())
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.SessionResponse{Result: api.Result{Success: true}, Expires: claims.Expires})
}
