package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"style-preset-backend/internal/blobs"
	"style-preset-backend/internal/models"
	"style-preset-backend/internal/preview"
	"style-preset-backend/internal/records"
	"style-preset-backend/internal/services"
	"style-preset-backend/internal/xmp"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var encErr *xmp.EncodingError
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, blobs.ErrNotFound), errors.Is(err, records.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, blobs.ErrInvalidName),
		errors.Is(err, blobs.ErrInvalidKind),
		errors.Is(err, preview.ErrUnsupportedImage),
		errors.Is(err, services.ErrEmptyUpload),
		errors.As(err, &encErr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, models.ErrorResponse{Error: msg, Message: err.Error()})
}
