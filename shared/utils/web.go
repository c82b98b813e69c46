package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/itchan-dev/wall/shared/api"
	"github.com/itchan-dev/wall/shared/errors"
	"github.com/itchan-dev/wall/shared/logger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// WriteErrorAndStatusCode writes err in the uniform {success:false, message} shape.
// Errors without a status code are internal: they are logged and never shown to the caller.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	if e, ok := errors.AsStatus(err); ok {
		WriteJSON(w, e.StatusCode, api.Result{Success: false, Message: e.Message})
		return
	}
	logger.Log.Error("unhandled error", "error", err)
	WriteJSON(w, http.StatusInternalServerError, api.Result{Success: false, Message: "Internal server error"})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

func DecodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("invalid json body", "error", err)
		return errors.Validation("Body is invalid json")
	}
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("body validation failed", "error", err)
		return errors.Validation("Required fields missing")
	}
	return nil
}
