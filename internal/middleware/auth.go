// Package middleware provides authentication, logging, rate limiting and tracing middleware.
package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"jobportal/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails parsing or validation.
var ErrInvalidToken = errors.New("invalid or expired token")

// RevocationChecker reports whether a token id has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthConfig describes how bearer tokens are validated.
type AuthConfig struct {
	Secret   string
	Issuer   string
	Audience string
	// Revocations is optional; when nil revoked tokens are not checked.
	Revocations RevocationChecker
}

// AccessClaims is the validated content of a bearer token.
type AccessClaims struct {
	UserID    uint
	Email     string
	UserType  string
	JTI       string
	ExpiresAt time.Time
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *fiber.Ctx) string {
	parts := strings.Split(c.Get("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// ParseAccessToken validates signature, expiry, issuer and audience and returns the claims.
func ParseAccessToken(cfg AuthConfig, tokenString string) (*AccessClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(cfg.Secret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}

	out := &AccessClaims{UserID: uint(userID)}
	out.Email, _ = claims["email"].(string)
	out.UserType, _ = claims["user_type"].(string)
	out.JTI, _ = claims["jti"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

// AuthRequired enforces a valid, unrevoked bearer token and stores the user id in Locals("userID").
func AuthRequired(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := BearerToken(c)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		claims, err := ParseAccessToken(cfg, tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		if claims.JTI != "" && cfg.Revocations != nil {
			revoked, err := cfg.Revocations.IsRevoked(c.UserContext(), claims.JTI)
			if err != nil {
				Logger.WarnContext(c.UserContext(), "token revocation check failed", "error", err)
			} else if revoked {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Token has been revoked"))
			}
		}

		c.Locals("userID", claims.UserID)
		c.Locals("claims", claims)
		c.SetUserContext(WithUserID(c.UserContext(), claims.UserID))

		return c.Next()
	}
}

// CurrentClaims returns the claims stored by AuthRequired.
func CurrentClaims(c *fiber.Ctx) (*AccessClaims, bool) {
	claims, ok := c.Locals("claims").(*AccessClaims)
	return claims, ok
}
