package middleware

import (
	"net/http"
	"strings"

	"uplink/backend/common"
	"uplink/backend/service"

	"github.com/gin-gonic/gin"
)

// JWTAuth validates the bearer token, rejects blacklisted tokens, and puts
// the claims into the gin context.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.RespErrorStr(c, http.StatusUnauthorized, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.RespErrorStr(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims, err := service.ValidateToken(tokenString)
		if err != nil {
			common.RespErrorStr(c, http.StatusUnauthorized, err.Error())
			c.Abort()
			return
		}

		if service.IsTokenBlacklisted(c, tokenString) {
			common.RespErrorStr(c, http.StatusUnauthorized, "Token has been invalidated")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Set("token", tokenString)

		c.Next()
	}
}

// AdminAuth assumes JWTAuth already ran and checks for the admin role.
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			common.RespErrorStr(c, http.StatusInternalServerError, "Role information not found")
			c.Abort()
			return
		}
		roleInt, ok := role.(int)
		if !ok {
			common.RespErrorStr(c, http.StatusInternalServerError, "Invalid role format")
			c.Abort()
			return
		}
		if roleInt < common.RoleAdminUser {
			common.RespErrorStr(c, http.StatusForbidden, "Admin privileges required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RootAuth assumes JWTAuth already ran and checks for the root role.
func RootAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			common.RespErrorStr(c, http.StatusInternalServerError, "Role information not found")
			c.Abort()
			return
		}
		roleInt, ok := role.(int)
		if !ok {
			common.RespErrorStr(c, http.StatusInternalServerError, "Invalid role format")
			c.Abort()
			return
		}
		if roleInt < common.RoleRootUser {
			common.RespErrorStr(c, http.StatusForbidden, "Root privileges required")
			c.Abort()
			return
		}
		c.Next()
	}
}
