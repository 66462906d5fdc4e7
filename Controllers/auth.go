package Controllers

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"Podium/Auth"
	"Podium/middleware"
)

var validate = validator.New()

const sessionDuration = 24 * time.Hour

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials against the identity provider and issues the
// session cookie. The page navigates to /root/admin on success.
func Login(c *fiber.Ctx) error {
	var input loginForm
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	result, err := Auth.SignInWithPassword(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, Auth.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid email or password",
			})
		}
		log.Println(err.Error())
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Sign-in is currently unavailable",
		})
	}

	claims := jwt.RegisteredClaims{
		Issuer:    "podium",
		Subject:   result.UID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionDuration)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(middleware.SecretKey())
	if err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create session",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "jwt",
		Value:    signed,
		Expires:  time.Now().Add(sessionDuration),
		HTTPOnly: true,
	})

	return c.JSON(fiber.Map{
		"message": "Signed in successfully",
		"email":   result.Email,
	})
}

func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "jwt",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"message": "Signed out successfully"})
}

// User reports the signed-in identity. Runs behind middleware.Verify, so
// the locals are always set.
func User(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"uid":   c.Locals("uid"),
		"email": c.Locals("email"),
	})
}

type changePasswordForm struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// validateNewPassword applies the form rules checked before any call to
// the identity provider.
func validateNewPassword(newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return errors.New("New passwords do not match")
	}
	if len(newPassword) < 8 {
		return errors.New("New password must be at least 8 characters long")
	}
	return nil
}

// ChangePassword re-authenticates with the current password, then updates
// the account password through the identity provider.
func ChangePassword(c *fiber.Ctx) error {
	var input changePasswordForm
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := validateNewPassword(input.NewPassword, input.ConfirmPassword); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	email, _ := c.Locals("email").(string)
	uid, _ := c.Locals("uid").(string)

	if _, err := Auth.SignInWithPassword(email, input.CurrentPassword); err != nil {
		if errors.Is(err, Auth.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Current password is incorrect",
			})
		}
		log.Println(err.Error())
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not verify current password",
		})
	}

	if err := Auth.UpdatePassword(c.Context(), uid, input.NewPassword); err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to change password",
		})
	}

	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}
