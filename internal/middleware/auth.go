package middleware

import (
	"context"
	"strings"

	"github.com/atakamran/liftlegends-sub000/internal/backend"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/session"
	"github.com/atakamran/liftlegends-sub000/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

const (
	// BackendKey is the fiber local holding the resolved backend.Backend.
	BackendKey = "backend"
	// SessionKey is the fiber local holding the request's *session.Session.
	SessionKey = "session"
)

type FeatureChecker interface {
	HasFeatureAccess(ctx context.Context, sess *session.Session, feature models.Feature) bool
}

func fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
		"code":    code,
	})
}

// BackendRequired resolves the :backend path segment against the registry.
func BackendRequired(registry *backend.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		b, ok := registry.Get(c.Params("backend"))
		if !ok {
			return fail(c, fiber.StatusNotFound, "not_found", "Unknown backend")
		}
		c.Locals(BackendKey, b)
		return c.Next()
	}
}

// AuthRequired verifies the bearer token (or the token query parameter, for
// websocket upgrades) and builds a fresh session for this request. A token
// issued by one backend is never accepted on another.
func AuthRequired(secret string, registry *backend.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		b := BackendFrom(c)
		if b == nil {
			resolved, ok := registry.Get(c.Params("backend"))
			if !ok {
				return fail(c, fiber.StatusNotFound, "not_found", "Unknown backend")
			}
			b = resolved
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			return fail(c, fiber.StatusUnauthorized, "not_authenticated", "Missing authorization header")
		}

		claims, err := utils.ValidateToken(tokenString, secret)
		if err != nil {
			return fail(c, fiber.StatusUnauthorized, "not_authenticated", "Invalid or expired token")
		}
		if claims.Backend != b.Name() {
			return fail(c, fiber.StatusUnauthorized, "not_authenticated", "Token was issued for another backend")
		}

		c.Locals(BackendKey, b)
		c.Locals(SessionKey, session.New(b, backend.Identity{
			ID:    claims.UserID,
			Email: claims.Email,
		}))
		return c.Next()
	}
}

// FeatureRequired lets the request through only while the caller's plan
// includes feature.
func FeatureRequired(checker FeatureChecker, feature models.Feature) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := SessionFrom(c)
		if sess == nil {
			return fail(c, fiber.StatusUnauthorized, "not_authenticated", "Not authenticated")
		}
		if !checker.HasFeatureAccess(c.Context(), sess, feature) {
			return fail(c, fiber.StatusForbidden, "feature_locked", "Your plan does not include "+string(feature))
		}
		return c.Next()
	}
}

func SessionFrom(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(SessionKey).(*session.Session)
	return sess
}

func BackendFrom(c *fiber.Ctx) backend.Backend {
	b, _ := c.Locals(BackendKey).(backend.Backend)
	return b
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := strings.TrimSpace(c.Get("Authorization"))
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	if token := strings.TrimSpace(c.Query("token")); token != "" {
		return token, true
	}
	return "", false
}
