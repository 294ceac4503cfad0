package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/egor/backoffice/logger"
	"github.com/egor/backoffice/models"
)

type errorBody struct {
	Error   string             `json:"error"`
	Details []models.Violation `json:"details,omitempty"`
}

// statusFor maps the error taxonomy onto HTTP. An unresolved reference is
// reported like a missing record.
func statusFor(err error) int {
	switch models.Kind(err) {
	case "validation":
		return http.StatusBadRequest
	case "not_found", "dependency":
		return http.StatusNotFound
	case "conflict":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError answers with the taxonomy message only; the wrapping added by
// lower layers names operations and tables and stays in the logs.
func respondError(c *gin.Context, log logger.Logger, err error) {
	status := statusFor(err)
	body := errorBody{Error: models.Message(err)}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		body.Details = verr.Violations
	}
	if status == http.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		_ = c.Error(err)
	}
	if body.Error == "" {
		body.Error = strings.ToLower(http.StatusText(status))
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: msg})
}
