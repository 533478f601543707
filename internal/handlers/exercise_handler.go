package handlers

import (
	"context"

	"github.com/atakamran/liftlegends-sub000/internal/middleware"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/services"
	"github.com/atakamran/liftlegends-sub000/internal/session"
	"github.com/gofiber/fiber/v2"
)

type exerciseApplicationService interface {
	ToggleCompletedExercise(ctx context.Context, sess *session.Session, day, exerciseName string) (*services.ToggleResult, error)
	ListCompletedExercises(ctx context.Context, sess *session.Session) ([]models.CompletedExercise, error)
}

type ExerciseHandler struct {
	service exerciseApplicationService
}

func NewExerciseHandler(service exerciseApplicationService) *ExerciseHandler {
	return &ExerciseHandler{service: service}
}

func (h *ExerciseHandler) ListCompleted(c *fiber.Ctx) error {
	exercises, err := h.service.ListCompletedExercises(c.Context(), middleware.SessionFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "exercises": exercises})
}

func (h *ExerciseHandler) ToggleCompleted(c *fiber.Ctx) error {
	var req toggleExerciseRequest
	if err := decodeJSON(c, &req); err != nil {
		return invalidBody(c)
	}

	result, err := h.service.ToggleCompletedExercise(c.Context(), middleware.SessionFrom(c), req.Day, req.ExerciseName)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "exercise": result})
}
