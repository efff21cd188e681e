package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	appauth "github.com/tilab/tilab/internal/app/auth"
	"github.com/tilab/tilab/internal/app/models"
	"github.com/tilab/tilab/internal/app/models/dto"
	"github.com/tilab/tilab/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextEmail = "email"
	ContextName  = "name"
	ContextRole  = "roleType"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	enabled    bool
}

// NewAuthMiddleware creates a new AuthMiddleware. When enabled is false every
// request passes through untouched.
func NewAuthMiddleware(jwtService *auth.JWTService, enabled bool) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		enabled:    enabled,
	}
}

// Enabled reports whether requests are authenticated
func (m *AuthMiddleware) Enabled() bool {
	return m.enabled
}

// tokenFromRequest reads the token from the Authorization header, falling back
// to the token query parameter used by browser websocket clients.
func tokenFromRequest(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		header = c.Query("token")
	}
	header = strings.Trim(header, "\"'")
	return auth.ExtractBearerToken(header)
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, details string) {
	detail := dto.NewErrorDetail(code, "Authentication required").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
}

// authenticate validates the request token and stores its claims on the
// context. It aborts and returns false when the token is missing or invalid.
func (m *AuthMiddleware) authenticate(c *gin.Context) bool {
	tokenString, err := tokenFromRequest(c)
	if err != nil {
		abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authorization header missing")
		return false
	}

	claims, err := m.jwtService.ValidateToken(tokenString)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Token has expired")
			return false
		}
		abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
		return false
	}

	c.Set(ContextEmail, claims.Email)
	c.Set(ContextName, claims.Name)
	c.Set(ContextRole, claims.Role)
	return true
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}
		if !m.authenticate(c) {
			return
		}
		c.Next()
	}
}

// Authorize checks the authenticated role against the request method. Reads
// stay public; writes need a token and deletes need an administrator.
func (m *AuthMiddleware) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		action := appauth.ActionForMethod(c.Request.Method)
		if !appauth.RequiresAuthentication(action) {
			c.Next()
			return
		}

		if !m.authenticate(c) {
			return
		}
		if !appauth.Allowed(models.RoleType(c.GetString(ContextRole)), action) {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

func abortForbidden(c *gin.Context) {
	detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
		WithDetails("You don't have sufficient permissions for this operation")
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(detail))
}
