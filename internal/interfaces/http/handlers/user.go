// Package handlers contains the gin HTTP handlers for the API.
package handlers

import "github.com/gin-gonic/gin"

// DefaultUserID is used when a request carries no user identity.
// The app runs as a single-user companion service; multi-user
// deployments set X-User-ID per request.
const DefaultUserID = "local"

func resolveUserID(c *gin.Context) string {
	if uid := c.GetHeader("X-User-ID"); uid != "" {
		return uid
	}
	if uid := c.Query("user_id"); uid != "" {
		return uid
	}
	return DefaultUserID
}
