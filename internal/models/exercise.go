package models

import "time"

type CompletedExercise struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Day          string    `json:"day"`
	ExerciseName string    `json:"exercise_name"`
	CompletedAt  time.Time `json:"completed_at"`
}
