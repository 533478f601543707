package handlers

import (
	"context"

	"github.com/atakamran/liftlegends-sub000/internal/middleware"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/session"
	"github.com/gofiber/fiber/v2"
)

type subscriptionApplicationService interface {
	GetCurrentSubscription(ctx context.Context, sess *session.Session) (*models.Subscription, error)
	HasFeatureAccess(ctx context.Context, sess *session.Session, feature models.Feature) bool
	UpdateSubscription(ctx context.Context, sess *session.Session, plan string, durationMonths int) (*models.Subscription, error)
}

type SubscriptionHandler struct {
	service subscriptionApplicationService
}

func NewSubscriptionHandler(service subscriptionApplicationService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

func (h *SubscriptionHandler) GetSubscription(c *fiber.Ctx) error {
	subscription, err := h.service.GetCurrentSubscription(c.Context(), middleware.SessionFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(subscriptionResponse(subscription))
}

// UpdateSubscription records a plan change. Payment is confirmed upstream
// before this is called.
func (h *SubscriptionHandler) UpdateSubscription(c *fiber.Ctx) error {
	var req subscriptionRequest
	if err := decodeJSON(c, &req); err != nil {
		return invalidBody(c)
	}

	months, err := req.months()
	if err != nil {
		return respondError(c, err)
	}

	subscription, err := h.service.UpdateSubscription(c.Context(), middleware.SessionFrom(c), req.Plan, months)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(subscriptionResponse(subscription))
}

func (h *SubscriptionHandler) CheckFeature(c *fiber.Ctx) error {
	feature := models.Feature(c.Params("feature"))
	allowed := h.service.HasFeatureAccess(c.Context(), middleware.SessionFrom(c), feature)
	return c.JSON(fiber.Map{
		"success": true,
		"feature": feature,
		"allowed": allowed,
	})
}

func subscriptionResponse(subscription *models.Subscription) fiber.Map {
	features := subscription.Plan.Features()
	if !subscription.IsActive {
		features = []models.Feature{}
	}
	return fiber.Map{
		"success":      true,
		"subscription": subscription,
		"features":     features,
	}
}
