package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/terzahh/samara-repository-sub000/internal/model"
	"github.com/terzahh/samara-repository-sub000/internal/repository"
)

type AuthMiddleware struct {
	users  repository.UserRepository
	secret string
}

func NewAuthMiddleware(users repository.UserRepository, secret string) *AuthMiddleware {
	return &AuthMiddleware{
		users:  users,
		secret: secret,
	}
}

func (m *AuthMiddleware) bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	// Fallback for download links opened outside an XHR context.
	return c.Query("token")
}

func (m *AuthMiddleware) parseSubject(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	return claims.Subject, nil
}

// RequireAuth validates the bearer token and re-fetches the user so a deleted
// account is rejected even while its token is still unexpired.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := m.bearerToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}

		userID, err := m.parseSubject(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		user, err := m.users.FindByID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("user", user)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and stays
// silent otherwise. Public listings use it to widen access for members.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := m.bearerToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		userID, err := m.parseSubject(tokenString)
		if err != nil {
			c.Next()
			return
		}

		user, err := m.users.FindByID(c.Request.Context(), userID)
		if err != nil {
			c.Next()
			return
		}

		c.Set("user_id", userID)
		c.Set("user", user)
		c.Next()
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRoles(model.RoleAdmin)
}

// RequireRoles runs after RequireAuth and rejects users whose role is not in
// the allowed set.
func (m *AuthMiddleware) RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		user, ok := value.(*model.User)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role.Name == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		c.Abort()
	}
}
