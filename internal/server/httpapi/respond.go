package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/gin-gonic/gin"
)

func ok(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{"data": data, "message": message})
}

func badRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request.", "error": detail})
}

// fail maps a service error to a status code. serverMessage is used for
// failures the client cannot act on.
func (h *Handler) fail(c *gin.Context, err error, serverMessage string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		badRequest(c, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found."})
	case errors.Is(err, common.ErrorForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden."})
	case errors.Is(err, common.ErrorAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"message": "Email already taken."})
	case errors.Is(err, common.ErrorStoreUnavailable):
		h.logger.Error(c.Request.Context(), serverMessage, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Service unavailable."})
	default:
		h.logger.Error(c.Request.Context(), serverMessage, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": serverMessage})
	}
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
