package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/socialnet/socialnet/internal/db"
	"github.com/socialnet/socialnet/internal/models"
)

// accountKey is the gin context key holding the authenticated account
const accountKey = "auth.account"

// Middleware returns a gin middleware that resolves the Authorization
// bearer token to an account or aborts with 401 before any handler logic.
func Middleware(tokens *db.TokenRepository, tokenTTLDays int) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c)
			return
		}

		hash := HashToken(strings.TrimSpace(parts[1]))
		if hash == "" {
			abortUnauthorized(c)
			return
		}

		notBefore := time.Now().UTC().AddDate(0, 0, -tokenTTLDays)
		account, err := tokens.AccountForHash(c.Request.Context(), hash, notBefore)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if account == nil {
			abortUnauthorized(c)
			return
		}

		c.Set(accountKey, account)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
}

// AccountFrom returns the authenticated account set by Middleware
func AccountFrom(c *gin.Context) *models.Account {
	v, ok := c.Get(accountKey)
	if !ok {
		return nil
	}
	account, _ := v.(*models.Account)
	return account
}
