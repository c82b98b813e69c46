package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/itchan-dev/wall/shared/api"
	"github.com/itchan-dev/wall/shared/domain"
	internal_errors "github.com/itchan-dev/wall/shared/errors"
	"github.com/itchan-dev/wall/shared/utils"
	"github.com/itchan-dev/wall/shared/validation"
)

const (
	formName         = "name"
	formMessage      = "message"
	formCaptchaToken = "recaptchaToken"
	formImages       = "images"
)

const submissionReceived = "Submission received"

// textFieldsBudget leaves room for text fields and multipart framing on top of the attachment cap.
const textFieldsBudget = 1 << 20

// Submit accepts the public multipart form.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	maxRequestSize := validation.CalculateMaxRequestSize(h.cfg.Public.MaxTotalAttachmentSize, textFieldsBudget)
	if err := validation.ValidateAndParseMultipart(r, w, maxRequestSize); err != nil {
		if errors.Is(err, validation.ErrNotMultipart) {
			utils.WriteErrorAndStatusCode(w, internal_errors.Validation("Request must be multipart/form-data"))
			return
		}
		utils.WriteErrorAndStatusCode(w, &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("Total attachment size exceeds the limit of %.0f MB", validation.FormatSizeMB(h.cfg.Public.MaxTotalAttachmentSize)),
			StatusCode: http.StatusRequestEntityTooLarge,
		})
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[formImages]
	if len(headers) == 0 {
		headers = r.MultipartForm.File[formImages+"[]"]
	}
	files, err := validation.OpenAttachments(headers, h.cfg.Public.MaxAttachments)
	if err != nil {
		if errors.Is(err, validation.ErrTooManyAttachments) {
			utils.WriteErrorAndStatusCode(w, internal_errors.Validation(fmt.Sprintf("At most %d images are allowed", h.cfg.Public.MaxAttachments)))
			return
		}
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	defer validation.CloseAll(files)

	_, err = h.intake.Submit(r.Context(), domain.SubmissionIntakeData{
		Name:         r.FormValue(formName),
		Message:      r.FormValue(formMessage),
		CaptchaToken: r.FormValue(formCaptchaToken),
		Files:        files,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeOK(w, http.StatusCreated, submissionReceived)
}

// ListPublic shows visible submissions only, whatever the caller asks for.
func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r, h.cfg.Public.PublicPageSize)

	res, err := h.query.Query(r.Context(), domain.QueryOptions{
		TextFilter:       r.URL.Query().Get("q"),
		VisibilityFilter: domain.VisibilityPublic,
		Page:             page,
		PageSize:         pageSize,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	items := make([]api.PublicSubmission, 0, len(res.Items))
	for _, v := range res.Items {
		items = append(items, api.NewPublicSubmission(v))
	}
	utils.WriteJSON(w, http.StatusOK, api.ListResponse[api.PublicSubmission]{
		Result:     api.Result{Success: true},
		Items:      items,
		TotalPages: res.TotalPages,
		Page:       page,
	})
}
