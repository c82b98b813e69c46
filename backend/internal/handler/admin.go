package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itchan-dev/wall/shared/api"
	"github.com/itchan-dev/wall/shared/domain"
	internal_errors "github.com/itchan-dev/wall/shared/errors"
	"github.com/itchan-dev/wall/shared/utils"
)

func (h *Handler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	visibility, ok := domain.ParseVisibilityFilter(r.URL.Query().Get("visibility"))
	if !ok {
		utils.WriteErrorAndStatusCode(w, internal_errors.Validation("Visibility must be one of all, public, hidden"))
		return
	}
	page, pageSize := pagination(r, h.cfg.Public.AdminPageSize)

	res, err := h.query.Query(r.Context(), domain.QueryOptions{
		TextFilter:       r.URL.Query().Get("q"),
		VisibilityFilter: visibility,
		Page:             page,
		PageSize:         pageSize,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	items := make([]api.AdminSubmission, 0, len(res.Items))
	for _, v := range res.Items {
		items = append(items, api.NewAdminSubmission(v))
	}
	utils.WriteJSON(w, http.StatusOK, api.ListResponse[api.AdminSubmission]{
		Result:     api.Result{Success: true},
		Items:      items,
		TotalPages: res.TotalPages,
		Page:       page,
	})
}

func (h *Handler) UpdateSubmission(w http.ResponseWriter, r *http.Request) {
	var body api.UpdateSubmissionRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	err := h.moderation.Update(r.Context(), domain.SubmissionUpdateData{
		Id:      chi.URLParam(r, "id"),
		Name:    body.Name,
		Message: body.Message,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Submission updated")
}

func (h *Handler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	var body api.SetVisibilityRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.moderation.SetVisibility(r.Context(), chi.URLParam(r, "id"), *body.IsVisible); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Visibility updated")
}

func (h *Handler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		utils.WriteErrorAndStatusCode(w, internal_errors.Validation("Image key is required"))
		return
	}

	if err := h.moderation.RemoveImage(r.Context(), chi.URLParam(r, "id"), key); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Image removed")
}

func (h *Handler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	if err := h.moderation.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Submission deleted")
}

func (h *Handler) ViewStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.views.Stats(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.ViewStatsResponse{Result: api.Result{Success: true}, ViewStats: stats})
}
