package services

import (
	"context"
	"strings"
	"time"

	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/session"
)

type ToggleResult struct {
	Day          string `json:"day"`
	ExerciseName string `json:"exercise_name"`
	Completed    bool   `json:"completed"`
}

type ExerciseService struct {
	now func() time.Time
}

func NewExerciseService() *ExerciseService {
	return &ExerciseService{now: time.Now}
}

// ToggleCompletedExercise flips the completion mark of one exercise on one
// day. Marking the same pair twice leaves no record behind.
func (s *ExerciseService) ToggleCompletedExercise(ctx context.Context, sess *session.Session, day, exerciseName string) (*ToggleResult, error) {
	if !sess.Valid() {
		return nil, ErrNotAuthenticated
	}

	day = strings.TrimSpace(day)
	exerciseName = strings.TrimSpace(exerciseName)
	v := models.Violations{}
	if day == "" {
		v["day"] = "is required"
	}
	if exerciseName == "" {
		v["exercise_name"] = "is required"
	}
	if err := v.Err(); err != nil {
		return nil, validationErr(err)
	}

	completed, err := sess.Backend.ToggleExercise(ctx, sess.UserID(), day, exerciseName, s.now().UTC())
	if err != nil {
		return nil, writeErr(err)
	}
	return &ToggleResult{Day: day, ExerciseName: exerciseName, Completed: completed}, nil
}

func (s *ExerciseService) ListCompletedExercises(ctx context.Context, sess *session.Session) ([]models.CompletedExercise, error) {
	if !sess.Valid() {
		return nil, ErrNotAuthenticated
	}
	exercises, err := sess.Backend.ListExercises(ctx, sess.UserID())
	if err != nil {
		return nil, readErr(err)
	}
	if exercises == nil {
		exercises = []models.CompletedExercise{}
	}
	return exercises, nil
}
