package repository

import (
	"context"
	"errors"
	"time"

	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/jackc/pgx/v5"
)

type CompletedExerciseRepository struct {
	db DBTX
}

func NewCompletedExerciseRepository(db DBTX) *CompletedExerciseRepository {
	return &CompletedExerciseRepository{db: db}
}

// Toggle deletes the matching record, or inserts one when nothing was
// deleted, in a single statement. It returns true when a record was inserted.
func (r *CompletedExerciseRepository) Toggle(ctx context.Context, userID, day, name string, at time.Time) (bool, error) {
	query := `
		WITH removed AS (
			DELETE FROM completed_exercises
			WHERE user_id = $1 AND day = $2 AND exercise_name = $3
			RETURNING id
		)
		INSERT INTO completed_exercises (user_id, day, exercise_name, completed_at)
		SELECT $1, $2, $3, $4
		WHERE NOT EXISTS (SELECT 1 FROM removed)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query, userID, day, name, at).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *CompletedExerciseRepository) ListByUserID(ctx context.Context, userID string) ([]models.CompletedExercise, error) {
	query := `
		SELECT id::text, user_id::text, day, exercise_name, completed_at
		FROM completed_exercises
		WHERE user_id = $1
		ORDER BY completed_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := []models.CompletedExercise{}
	for rows.Next() {
		var exercise models.CompletedExercise
		if err := rows.Scan(
			&exercise.ID,
			&exercise.UserID,
			&exercise.Day,
			&exercise.ExerciseName,
			&exercise.CompletedAt,
		); err != nil {
			return nil, err
		}
		exercises = append(exercises, exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return exercises, nil
}
