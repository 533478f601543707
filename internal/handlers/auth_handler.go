package handlers

import (
	"context"

	"github.com/atakamran/liftlegends-sub000/internal/backend"
	"github.com/atakamran/liftlegends-sub000/internal/middleware"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/services"
	"github.com/atakamran/liftlegends-sub000/internal/session"
	"github.com/gofiber/fiber/v2"
)

type authApplicationService interface {
	SignUp(ctx context.Context, b backend.Backend, email, password string) (*services.AuthResult, error)
	SignIn(ctx context.Context, b backend.Backend, email, password string) (*services.AuthResult, error)
	Refresh(ctx context.Context, sess *session.Session) (*services.AuthResult, error)
	Me(ctx context.Context, sess *session.Session) (*backend.Identity, *models.UserProfile, error)
}

type AuthHandler struct {
	service authApplicationService
}

func NewAuthHandler(service authApplicationService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := decodeJSON(c, &req); err != nil {
		return invalidBody(c)
	}

	result, err := h.service.SignUp(c.Context(), middleware.BackendFrom(c), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(authResponse(result))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := decodeJSON(c, &req); err != nil {
		return invalidBody(c)
	}

	result, err := h.service.SignIn(c.Context(), middleware.BackendFrom(c), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(authResponse(result))
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	result, err := h.service.Refresh(c.Context(), middleware.SessionFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(authResponse(result))
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	identity, profile, err := h.service.Me(c.Context(), sess)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    userJSON(*identity, sess.BackendName()),
		"profile": profile,
	})
}

func authResponse(result *services.AuthResult) fiber.Map {
	body := fiber.Map{
		"success": true,
		"token":   result.Token,
		"user":    userJSON(result.Session.Identity, result.Session.BackendName()),
	}
	if result.Profile != nil {
		body["profile"] = result.Profile
	}
	return body
}

func userJSON(identity backend.Identity, backendName string) fiber.Map {
	return fiber.Map{
		"id":      identity.ID,
		"email":   identity.Email,
		"backend": backendName,
	}
}
