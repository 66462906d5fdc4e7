package middleware

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"Podium/Auth"
)

// SecretKey signs the session cookies issued after a successful Firebase
// sign-in. Overridable via JWT_SECRET.
func SecretKey() []byte {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return []byte(secret)
	}
	return []byte("dev-secret")
}

func parseSession(c *fiber.Ctx) (*jwt.RegisteredClaims, bool) {
	cookie := c.Cookies("jwt")
	if cookie == "" {
		return nil, false
	}

	token, err := jwt.ParseWithClaims(cookie, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return SecretKey(), nil
	})
	if err != nil {
		return nil, false
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, false
	}
	return claims, true
}

// Verify gates the admin API. The token subject is the Firebase UID; the
// account is looked up against the identity provider so a deleted or
// disabled account loses access immediately.
func Verify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := parseSession(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not Logged In.",
			})
		}

		user, err := Auth.GetUser(c.Context(), claims.Subject)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found",
			})
		}

		c.Locals("uid", user.UID)
		c.Locals("email", user.Email)
		return c.Next()
	}
}

// RequireSession protects the admin page itself: no valid session means a
// redirect to the sign-in form instead of a JSON error.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := parseSession(c); !ok {
			return c.Redirect("/root/admin/signin")
		}
		return c.Next()
	}
}
