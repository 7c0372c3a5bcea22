package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/kirana/internal/config"
	"github.com/example/kirana/internal/utils"
)

// AuthHandler issues admin console tokens. The whole flow is inert unless an
// admin password is configured.
type AuthHandler struct {
	cfg          *config.Config
	passwordHash string
}

// NewAuthHandler constructs AuthHandler, hashing the configured password once
// at startup.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	h := &AuthHandler{cfg: cfg}
	if cfg.AdminAuthEnabled() {
		hash, err := utils.HashPassword(cfg.AdminPassword)
		if err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}
		h.passwordHash = hash
	}
	return h
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login exchanges the admin password for a bearer token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	if !h.cfg.AdminAuthEnabled() {
		return fiber.NewError(fiber.StatusNotFound, "admin login disabled")
	}

	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if !utils.CheckPassword(h.passwordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateAdminToken(h.cfg.JWTSecret, h.cfg.TokenExpires)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"token": token})
}
