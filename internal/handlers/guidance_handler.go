package handlers

import (
	"context"

	"github.com/atakamran/liftlegends-sub000/internal/middleware"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/services"
	"github.com/atakamran/liftlegends-sub000/internal/session"
	"github.com/gofiber/fiber/v2"
)

type guidanceApplicationService interface {
	FoodPlan(ctx context.Context, sess *session.Session) (*services.FoodPlan, error)
	Supplements(ctx context.Context, sess *session.Session) ([]models.GuidanceItem, error)
	Steroids(ctx context.Context, sess *session.Session) (*models.GuidanceItem, error)
}

// GuidanceHandler serves plan-gated content. The feature gate runs as
// route middleware before these handlers.
type GuidanceHandler struct {
	service guidanceApplicationService
}

func NewGuidanceHandler(service guidanceApplicationService) *GuidanceHandler {
	return &GuidanceHandler{service: service}
}

func (h *GuidanceHandler) FoodPlan(c *fiber.Ctx) error {
	plan, err := h.service.FoodPlan(c.Context(), middleware.SessionFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "food_plan": plan})
}

func (h *GuidanceHandler) Supplements(c *fiber.Ctx) error {
	items, err := h.service.Supplements(c.Context(), middleware.SessionFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "supplements": items})
}

func (h *GuidanceHandler) Steroids(c *fiber.Ctx) error {
	item, err := h.service.Steroids(c.Context(), middleware.SessionFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "guidance": item})
}
