package handlers

import (
	"context"

	"github.com/atakamran/liftlegends-sub000/internal/middleware"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/session"
	"github.com/gofiber/fiber/v2"
)

type profileApplicationService interface {
	GetProfile(ctx context.Context, sess *session.Session) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, sess *session.Session, record map[string]any) (*models.UserProfile, error)
	DeleteProfile(ctx context.Context, sess *session.Session) error
}

type ProfileHandler struct {
	service profileApplicationService
}

func NewProfileHandler(service profileApplicationService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.service.GetProfile(c.Context(), middleware.SessionFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "profile": profile})
}

// UpdateProfile takes a flat JSON object; keys that are present overwrite,
// missing keys keep their stored values.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	var record map[string]any
	if err := decodeJSON(c, &record); err != nil || record == nil {
		return invalidBody(c)
	}

	profile, err := h.service.UpdateProfile(c.Context(), middleware.SessionFrom(c), record)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "profile": profile})
}

func (h *ProfileHandler) DeleteProfile(c *fiber.Ctx) error {
	if err := h.service.DeleteProfile(c.Context(), middleware.SessionFrom(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
