package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/socialnet/socialnet/pkg/logging"
)

// Error taxonomy: 401 is produced by the auth middleware before handlers
// run; handlers produce 403 at the ownership gate, 400 with field-level
// messages for validation failures, 404 for missing ids, and 500 for
// storage errors. Nothing is retried.

func abortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you do not own this resource"})
}

func abortNotFound(c *gin.Context, what string) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}

func abortValidation(c *gin.Context, field, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"errors": gin.H{field: message}})
}

func abortBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}

func abortInternal(c *gin.Context, err error) {
	logging.GetLogger().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
