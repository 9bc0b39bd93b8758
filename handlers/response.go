package handlers

import (
	"errors"
	"net/http"

	"legallyai-backend/schema"
	"legallyai-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// flowStatus maps flow error kinds to HTTP status and error code
var flowStatus = map[service.ErrorKind]struct {
	status int
	code   string
}{
	service.KindValidation:    {http.StatusBadRequest, "VALIDATION_ERROR"},
	service.KindToolExecution: {http.StatusBadGateway, "TOOL_EXECUTION_FAILED"},
	service.KindGeneration:    {http.StatusBadGateway, "GENERATION_FAILED"},
	service.KindTimeout:       {http.StatusGatewayTimeout, "TIMEOUT"},
}

// respondServiceError writes the envelope for an error returned by a service
func respondServiceError(c *gin.Context, logger *zap.Logger, err error) {
	var flowErr *service.FlowError
	var validationErr *schema.ValidationError

	switch {
	case errors.As(err, &flowErr):
		m, ok := flowStatus[flowErr.Kind]
		if !ok {
			m.status, m.code = http.StatusInternalServerError, "INTERNAL_ERROR"
		}
		if m.status >= http.StatusInternalServerError {
			logger.Error("AI flow failed",
				zap.String("flow", flowErr.Flow),
				zap.String("kind", string(flowErr.Kind)),
				zap.Error(flowErr.Err),
			)
		}
		respondError(c, m.status, m.code, err.Error())
	case errors.As(err, &validationErr):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Error())
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You do not own this resource")
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusConflict, "EMAIL_TAKEN", err.Error())
	default:
		logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// respondBindError reports a request body that failed to decode or validate
func respondBindError(c *gin.Context, err error) {
	var validationErr *schema.ValidationError
	if errors.As(schema.Convert(err), &validationErr) {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Error())
		return
	}
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
}
