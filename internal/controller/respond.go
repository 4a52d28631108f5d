package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prepforge/prepforge/internal/dto"
	"github.com/prepforge/prepforge/internal/service"
	"github.com/rs/zerolog/log"
)

// RespondError maps the service error taxonomy onto HTTP status codes. Anything
// outside the taxonomy is a storage or programming failure and surfaces as an
// opaque 500.
func RespondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrInsufficientCredits):
		ctx.JSON(http.StatusPaymentRequired, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrConflict):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrValidation):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Unhandled service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "internal server error"})
	}
}
