package handlers

import (
	"context"
	"errors"

	"github.com/atakamran/liftlegends-sub000/internal/middleware"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/services"
	"github.com/atakamran/liftlegends-sub000/internal/session"
	"github.com/gofiber/fiber/v2"
)

type workoutCatalog interface {
	ListWorkouts(level string) ([]models.WorkoutPlan, error)
	GetWorkout(id string) (*models.WorkoutPlan, error)
	RecommendedWorkout(profile *models.UserProfile) models.WorkoutPlan
}

type profileReader interface {
	GetProfile(ctx context.Context, sess *session.Session) (*models.UserProfile, error)
}

type WorkoutHandler struct {
	catalog  workoutCatalog
	profiles profileReader
}

func NewWorkoutHandler(catalog workoutCatalog, profiles profileReader) *WorkoutHandler {
	return &WorkoutHandler{catalog: catalog, profiles: profiles}
}

func (h *WorkoutHandler) ListWorkouts(c *fiber.Ctx) error {
	plans, err := h.catalog.ListWorkouts(c.Query("level"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "workouts": plans})
}

func (h *WorkoutHandler) GetWorkout(c *fiber.Ctx) error {
	plan, err := h.catalog.GetWorkout(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "workout": plan})
}

// RecommendedWorkout works without a profile row; it then falls back to
// the beginner plans.
func (h *WorkoutHandler) RecommendedWorkout(c *fiber.Ctx) error {
	profile, err := h.profiles.GetProfile(c.Context(), middleware.SessionFrom(c))
	if err != nil && !errors.Is(err, services.ErrNotFound) {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "workout": h.catalog.RecommendedWorkout(profile)})
}
