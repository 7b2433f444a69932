package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apperrors "github.com/peterkingsmesn/jig-backend/internal/errors"
	"github.com/peterkingsmesn/jig-backend/internal/model"
)

func respondOK(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, model.SuccessResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// respondError writes the standard error envelope. Non-AppError failures are
// wrapped as internal errors so no raw error text reaches the client; the
// cause is logged server-side instead.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Error().Err(appErr).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.JSON(appErr.HTTPStatus, appErr.ToEnvelope(c.Request.URL.Path))
}

func abortError(c *gin.Context, log zerolog.Logger, err error) {
	respondError(c, log, err)
	c.Abort()
}
