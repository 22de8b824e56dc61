package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const CtxClaimsKey = "auth_claims"

func AuthMiddleware(tickets TicketService, repo *Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer ticket"})
			c.Abort()
			return
		}

		raw := strings.TrimSpace(h[len("Bearer "):])
		claims, err := tickets.Parse(raw)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid ticket"})
			c.Abort()
			return
		}
		if repo != nil {
			currentVersion, err := repo.GetTicketVersion(c.Request.Context(), claims.UserID)
			if err != nil || currentVersion != claims.TicketVersion {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid ticket"})
				c.Abort()
				return
			}
		}

		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves a ticket when one is presented but never
// rejects the request. The carousel uses it: anonymous players still get the
// fallback shelves.
func OptionalAuthMiddleware(tickets TicketService, repo *Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			c.Next()
			return
		}

		raw := strings.TrimSpace(h[len("Bearer "):])
		claims, err := tickets.Parse(raw)
		if err != nil {
			c.Next()
			return
		}
		if repo != nil {
			currentVersion, err := repo.GetTicketVersion(c.Request.Context(), claims.UserID)
			if err != nil || currentVersion != claims.TicketVersion {
				c.Next()
				return
			}
		}

		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}

func MustGetClaims(c *gin.Context) *Claims {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}
