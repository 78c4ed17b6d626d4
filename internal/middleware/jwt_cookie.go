package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/asad7116/Freelancing-Platform-sub001/internal/cache"
	"github.com/asad7116/Freelancing-Platform-sub001/internal/utils"
)

const CookieName = "fp_token"

// JWTAuth reads the session token from the fp_token cookie, falling back
// to an Authorization bearer header, verifies it and stores the parsed
// token in locals. Revoked (logged-out) tokens are rejected even if they
// have not expired yet. denylist may be nil in tests.
func JWTAuth(secret string, denylist *cache.TokenDenylist) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(CookieName)
		if tokenStr == "" {
			auth := c.Get(fiber.HeaderAuthorization)
			if strings.HasPrefix(auth, "Bearer ") {
				tokenStr = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			}
		}
		if tokenStr == "" {
			return fiber.ErrUnauthorized
		}

		token, err := jwt.ParseWithClaims(tokenStr, &utils.Claims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return fiber.ErrUnauthorized
		}

		if denylist != nil && denylist.IsRevoked(c.Context(), tokenStr) {
			return fiber.ErrUnauthorized
		}

		c.Locals("user", token)
		c.Locals("rawToken", tokenStr)
		return c.Next()
	}
}
