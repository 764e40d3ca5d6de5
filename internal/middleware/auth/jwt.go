package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthUser represents an authenticated administrator from JWT
type AuthUser struct {
	Subject string `json:"subject"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}

const userContextKey = "authenticated_user"

// JWTConfig holds the configuration for JWT middleware
type JWTConfig struct {
	Secret string
	Logger *zap.Logger
}

// JWTMiddleware validates bearer tokens and stores the authenticated user on
// the request context.
func JWTMiddleware(config JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				config.Logger.Warn("missing authorization header",
					zap.String("path", path),
					zap.String("method", c.Request().Method))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "authorization header required",
				})
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				config.Logger.Warn("invalid authorization header format",
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "invalid authorization header format, expected: Bearer <token>",
				})
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(config.Secret), nil
			})
			if err != nil || !token.Valid {
				config.Logger.Warn("invalid token",
					zap.String("path", path),
					zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "invalid or expired token",
				})
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "invalid token claims",
				})
			}

			user := &AuthUser{}
			if sub, ok := claims["sub"].(string); ok {
				user.Subject = sub
			}
			if email, ok := claims["email"].(string); ok {
				user.Email = email
			}
			if role, ok := claims["role"].(string); ok {
				user.Role = role
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// RequireAuth returns the authenticated user or an HTTP error the handler
// should return as-is.
func RequireAuth(c echo.Context) (*AuthUser, error) {
	user, ok := c.Get(userContextKey).(*AuthUser)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return user, nil
}

// RequireAdmin returns the authenticated user only when it carries the admin
// role.
func RequireAdmin(c echo.Context) (*AuthUser, error) {
	user, err := RequireAuth(c)
	if err != nil {
		return nil, err
	}
	if user.Role != "admin" {
		return nil, echo.NewHTTPError(http.StatusForbidden, "admin role required")
	}
	return user, nil
}
