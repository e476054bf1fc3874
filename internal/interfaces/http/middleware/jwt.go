package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/infrastructure/auth"
	"github.com/legumemart/backend/internal/infrastructure/logger"
	"github.com/legumemart/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// gin context keys set by OperatorAuth
const (
	JWTClaimsKey     = "jwt_claims"
	JWTOperatorIDKey = "jwt_operator_id"
	BearerPrefix     = "Bearer "
)

// TokenValidator verifies a bearer token
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

// OperatorAuthConfig holds configuration for the operator identity middleware
type OperatorAuthConfig struct {
	Validator TokenValidator
	// Required rejects requests without a token. Optional mode still rejects
	// a token that is present but invalid.
	Required bool
	// SkipPaths never require a token
	SkipPaths []string
	Logger    *zap.Logger
}

// OperatorAuth resolves the operator behind a request from its bearer token
// and attaches the operator to the gin and request contexts
func OperatorAuth(cfg OperatorAuthConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		for _, p := range cfg.SkipPaths {
			if c.Request.URL.Path == p {
				c.Next()
				return
			}
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			if cfg.Required {
				abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing authorization header")
				return
			}
			c.Next()
			return
		}
		token, found := strings.CutPrefix(header, BearerPrefix)
		if !found || token == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := cfg.Validator.ValidateAccessToken(token)
		if err != nil {
			cfg.Logger.Debug("operator token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrCodeTokenExpired, "Token has expired")
				return
			}
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Invalid token")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTOperatorIDKey, claims.OperatorID)
		ctx, _ := logger.WithOperatorID(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.OperatorID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message, GetRequestID(c)))
}

// GetOperatorID returns the authenticated operator, or nil for anonymous
// requests
func GetOperatorID(c *gin.Context) *uuid.UUID {
	raw := c.GetString(JWTOperatorIDKey)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// GetClaims returns the validated token claims
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
