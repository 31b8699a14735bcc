package web

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
)

// AuthConfig configures the organization-scoping middleware. When JWTSecret
// is empty and AllowOrgHeader is set, the X-Organization-ID header is
// trusted directly. That mode is for local development only.
type AuthConfig struct {
	JWTSecret      string
	AllowOrgHeader bool
}

const organizationIDKey = "organization_id"

type orgClaims struct {
	jwt.RegisteredClaims

	OrganizationID string   `json:"org"`
	Roles          []string `json:"roles,omitempty"`
}

func authenticateJWT(token, secret string) (*orgClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &orgClaims{}

	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.OrganizationID == "" {
		return nil, errors.New("org claim required")
	}

	return claims, nil
}

func bearerToken(authz string) (string, bool) {
	parts := strings.Fields(authz)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	return parts[1], true
}

// NewAuthMiddleware resolves the caller's organization and stores it in the
// request locals. Every data route requires it; multi-tenant isolation
// depends on reads never crossing organizations.
func NewAuthMiddleware(cfg AuthConfig) fiber.Handler {
	return func(c fiber.Ctx) error {
		if cfg.JWTSecret != "" {
			token, ok := bearerToken(c.Get("Authorization"))
			if !ok {
				return unauthorized(c, "bearer token required")
			}

			claims, err := authenticateJWT(token, cfg.JWTSecret)
			if err != nil {
				return unauthorized(c, "invalid token")
			}

			c.Locals(organizationIDKey, claims.OrganizationID)

			return c.Next()
		}

		if cfg.AllowOrgHeader {
			org := c.Get("X-Organization-ID")
			if org == "" {
				return unauthorized(c, "X-Organization-ID header required")
			}

			c.Locals(organizationIDKey, org)

			return c.Next()
		}

		return unauthorized(c, "authentication not configured")
	}
}

// organizationID returns the organization resolved by the auth middleware.
func organizationID(c fiber.Ctx) string {
	org, _ := c.Locals(organizationIDKey).(string)

	return org
}
