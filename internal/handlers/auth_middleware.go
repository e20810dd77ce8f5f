package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/services"
)

// AuthMiddleware authenticates bearer tokens and enforces role and
// permission requirements per route.
type AuthMiddleware struct {
	authService services.AuthService
}

func NewAuthMiddleware(authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate resolves the acting user from the Authorization header. The
// role and permission set is recomputed from the store on every request, so
// role changes take effect immediately.
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authorization header with Bearer token is required",
			})
			c.Abort()
			return
		}

		user, claims, err := am.authService.VerifyToken(c.Request.Context(), token)
		if err != nil {
			status := http.StatusUnauthorized
			message := "Invalid or expired token"
			if errors.Is(err, services.ErrTokenRevoked) {
				message = "Token has been revoked"
			}
			c.JSON(status, ErrorResponse{Message: message})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("token_claims", claims)

		c.Next()
	}
}

// OptionalAuthenticate resolves the user when a valid token is present but
// never rejects the request. Public content routes use this.
func (am *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token != "" {
			if user, claims, err := am.authService.VerifyToken(c.Request.Context(), token); err == nil {
				c.Set("user_id", user.ID)
				c.Set("user", user)
				c.Set("token_claims", claims)
			}
		}
		c.Next()
	}
}

// RequireRole allows the request when any assigned role matches. super_admin
// passes every role check.
func (am *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetUserFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
			})
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.HasRole(role) {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Insufficient role",
			Details: map[string]interface{}{
				"required_roles": roles,
			},
		})
		c.Abort()
	}
}

// RequirePermission allows the request when any assigned role carries the
// named permission. A user with no permissions is denied everything;
// super_admin bypasses the check.
func (am *AuthMiddleware) RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetUserFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
			})
			c.Abort()
			return
		}

		if !user.HasPermission(permission) {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: "Insufficient permission",
				Details: map[string]interface{}{
					"required_permission": permission,
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetUserFromContext extracts the authenticated user set by Authenticate.
func GetUserFromContext(c *gin.Context) (*models.User, error) {
	value, exists := c.Get("user")
	if !exists {
		return nil, errors.New("user not found in context")
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil, errors.New("invalid user type in context")
	}
	return user, nil
}

// GetUserIDFromContext extracts the authenticated user id.
func GetUserIDFromContext(c *gin.Context) (uint, error) {
	value, exists := c.Get("user_id")
	if !exists {
		return 0, errors.New("user id not found in context")
	}
	id, ok := value.(uint)
	if !ok {
		return 0, errors.New("invalid user id type in context")
	}
	return id, nil
}

// GetClaimsFromContext extracts the token claims for the request.
func GetClaimsFromContext(c *gin.Context) (*services.TokenClaims, error) {
	value, exists := c.Get("token_claims")
	if !exists {
		return nil, errors.New("token claims not found in context")
	}
	claims, ok := value.(*services.TokenClaims)
	if !ok {
		return nil, errors.New("invalid claims type in context")
	}
	return claims, nil
}
