package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/georgemunganga/pharmahub-backend/internal/platform/apperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Decode reads a JSON body into dst and runs its `validate` struct tags.
func Decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("malformed JSON body")
	}
	return Validate(dst)
}

// Validate runs the `validate` struct tags of v.
func Validate(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperr.Newf(apperr.CodeValidation, "%s is invalid (%s)", verrs[0].Field(), verrs[0].Tag())
		}
		return apperr.Validation(err.Error())
	}
	return nil
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeValidation:
		return http.StatusBadRequest
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeInvalidTransition, apperr.CodeConcurrentModification, apperr.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError translates err into a JSON error response. Internal failures are
// logged and answered with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	code := apperr.CodeOf(err)
	status := StatusFor(code)

	body := ErrorBody{Error: string(code), Message: err.Error(), Retryable: apperr.Retryable(err)}
	switch {
	case status == http.StatusInternalServerError:
		log.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		body = ErrorBody{Error: string(apperr.CodeInternal), Message: "something went wrong, please try again later"}
	case code == apperr.CodeForbidden:
		log.Warn("forbidden admin action",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		body.Message = "not permitted"
	case code == apperr.CodeConcurrentModification:
		body.Message = err.Error() + ", please retry"
	}
	Respond(w, status, body)
}
