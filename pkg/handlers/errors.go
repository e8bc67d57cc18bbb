package handlers

import (
	"errors"
	"net/http"

	"portfolio-cms/pkg/drafts"
	"portfolio-cms/pkg/editor"
	"portfolio-cms/pkg/pipeline"
	"portfolio-cms/pkg/remote"
	"portfolio-cms/pkg/services"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var badRequest = []error{
	pipeline.ErrValidation,
	editor.ErrUnknownTemplate,
	editor.ErrUnknownField,
	editor.ErrUnknownLanguage,
	editor.ErrIndexOutOfRange,
	editor.ErrNotAnArrayField,
	editor.ErrInvalidDirection,
}

func statusFor(err error) int {
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	var uploadErr *services.UploadError
	var apiErr *remote.APIError
	switch {
	case errors.Is(err, services.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, drafts.ErrSettingsMissing):
		return http.StatusPreconditionFailed
	case errors.Is(err, services.ErrPublishInProgress):
		return http.StatusConflict
	case errors.Is(err, services.ErrItemNotFound), errors.Is(err, remote.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &uploadErr), errors.As(err, &apiErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error": ...}. Validation failures also list
// the offending fields.
func respondError(c *gin.Context, err error, extra ...gin.H) {
	_ = c.Error(err)
	body := gin.H{"error": err.Error()}
	var fields validation.Errors
	if errors.As(err, &fields) {
		body["fields"] = fields
	}
	for _, e := range extra {
		for k, v := range e {
			body[k] = v
		}
	}
	c.JSON(statusFor(err), body)
}
