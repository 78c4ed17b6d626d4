package handlers

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/asad7116/Freelancing-Platform-sub001/internal/cache"
	"github.com/asad7116/Freelancing-Platform-sub001/internal/models"
	"github.com/asad7116/Freelancing-Platform-sub001/internal/utils"
)

type AuthHandler struct {
	DB        *gorm.DB
	Denylist  *cache.TokenDenylist
	JWTSecret string
	Expires   int
}

type RegisterReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"` // client / freelancer, never admin from public input
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return fail400(c, "invalid body")
	}

	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)
	password := strings.TrimSpace(req.Password)
	role := strings.ToLower(strings.TrimSpace(req.Role))

	errors := FieldErrors{}

	if name == "" {
		errors.Add("name", "Name is required")
	}
	if email == "" {
		errors.Add("email", "Email is required")
	} else if !strings.Contains(email, "@") {
		errors.Add("email", "Email format is invalid")
	}
	if password == "" {
		errors.Add("password", "Password is required")
	} else if len(password) < 6 {
		errors.Add("password", "Password must be at least 6 characters")
	}
	if phone != "" && len(phone) < 8 {
		errors.Add("phone", "Phone number is invalid")
	}
	if role != string(models.RoleClient) && role != string(models.RoleFreelancer) {
		errors.Add("role", "Role must be client or freelancer")
	}

	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	var existing models.User
	if err := h.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		errs := FieldErrors{}
		errs.Add("email", "Email is already registered")
		return validationFail(c, errs)
	} else if err != gorm.ErrRecordNotFound {
		return fail500(c, "Internal server error", err)
	}

	pw, err := utils.HashPassword(password)
	if err != nil {
		return fail500(c, "Failed to process password", err)
	}

	u := models.User{
		Name:     name,
		Email:    email,
		Password: pw,
		Role:     models.Role(role),
		IsActive: true,
		Phone:    phone,
	}

	if err := h.DB.Create(&u).Error; err != nil {
		return fail500(c, "Failed to register", err)
	}

	token, err := utils.SignJWT(h.JWTSecret, u.ID.String(), string(u.Role), h.Expires)
	if err != nil {
		return fail500(c, "Failed to create token", err)
	}

	setAuthCookie(c, token, h.Expires*60)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registered",
		"data": fiber.Map{
			"user": fiber.Map{
				"id":    u.ID,
				"name":  u.Name,
				"email": u.Email,
				"phone": u.Phone,
				"role":  u.Role,
			},
		},
	})
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return fail400(c, "invalid body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	errors := FieldErrors{}
	if email == "" {
		errors.Add("email", "Email is required")
	}
	if password == "" {
		errors.Add("password", "Password is required")
	}
	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	var u models.User
	if err := h.DB.Where("email = ?", email).First(&u).Error; err != nil {
		// same message for unknown email and wrong password
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Wrong email or password",
		})
	}

	if !u.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Account is inactive",
		})
	}

	if !utils.CheckPassword(u.Password, password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Wrong email or password",
		})
	}

	token, err := utils.SignJWT(h.JWTSecret, u.ID.String(), string(u.Role), h.Expires)
	if err != nil {
		return fail500(c, "Failed to create token", err)
	}

	setAuthCookie(c, token, h.Expires*60)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged in",
		"data": fiber.Map{
			"user": fiber.Map{
				"id":    u.ID,
				"name":  u.Name,
				"email": u.Email,
				"role":  u.Role,
			},
		},
	})
}

// Logout clears the cookie and denylists the token for whatever remains
// of its lifetime, so a copied token stops working immediately.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if raw, ok := c.Locals("rawToken").(string); ok && raw != "" && h.Denylist != nil {
		ttl := time.Duration(h.Expires) * time.Minute
		if tok, okTok := c.Locals("user").(*jwt.Token); okTok && tok != nil {
			if claims, okClaims := tok.Claims.(*utils.Claims); okClaims && claims.ExpiresAt != nil {
				ttl = time.Until(claims.ExpiresAt.Time)
			}
		}
		if err := h.Denylist.Revoke(c.Context(), raw, ttl); err != nil {
			log.Printf("[Logout] failed to denylist token: %v", err)
		}
	}

	clearAuthCookie(c)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out",
	})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}
