package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/jackc/pgx/v5"
)

const userProfileColumns = `id, user_id::text, name, age, gender, height, weight, target_weight,
		goal, fitness_level, training_days, training_place, has_dietary_restrictions,
		dietary_restrictions, uses_supplements, steroid_interest, subscription_plan,
		subscription_start_date, subscription_end_date, created_at, updated_at`

type UserProfileRepository struct {
	db DBTX
}

func NewUserProfileRepository(db DBTX) *UserProfileRepository {
	return &UserProfileRepository{db: db}
}

// CreateEmpty inserts a basic-plan row unless the user already has one.
func (r *UserProfileRepository) CreateEmpty(ctx context.Context, userID string) error {
	query := `
		INSERT INTO user_profiles (user_id, subscription_plan)
		VALUES ($1, 'basic')
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *UserProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := `SELECT ` + userProfileColumns + ` FROM user_profiles WHERE user_id = $1`
	return scanUserProfile(r.db.QueryRow(ctx, query, userID))
}

func (r *UserProfileRepository) ListByUserID(ctx context.Context, userID string) ([]models.UserProfile, error) {
	query := `SELECT ` + userProfileColumns + ` FROM user_profiles WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []models.UserProfile{}
	for rows.Next() {
		profile, err := scanUserProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Upsert writes only the columns present in the patch; on conflict the
// other columns keep their stored values.
func (r *UserProfileRepository) Upsert(ctx context.Context, userID string, patch models.ProfilePatch) (*models.UserProfile, error) {
	fields := patch.Fields()

	columns := make([]string, 0, len(fields)+1)
	placeholders := make([]string, 0, len(fields)+1)
	assignments := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)

	columns = append(columns, "user_id")
	placeholders = append(placeholders, "$1")
	args = append(args, userID)

	for i, field := range fields {
		columns = append(columns, field.Column)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		assignments = append(assignments, fmt.Sprintf("%s = EXCLUDED.%s", field.Column, field.Column))
		args = append(args, field.Value)
	}
	assignments = append(assignments, "updated_at = NOW()")

	query := fmt.Sprintf(`
		INSERT INTO user_profiles (%s)
		VALUES (%s)
		ON CONFLICT (user_id) DO UPDATE SET %s
		RETURNING %s
	`, strings.Join(columns, ", "), strings.Join(placeholders, ", "), strings.Join(assignments, ", "), userProfileColumns)

	return scanUserProfile(r.db.QueryRow(ctx, query, args...))
}

func (r *UserProfileRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanUserProfile(row pgx.Row) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Name,
		&profile.Age,
		&profile.Gender,
		&profile.Height,
		&profile.Weight,
		&profile.TargetWeight,
		&profile.Goal,
		&profile.FitnessLevel,
		&profile.TrainingDays,
		&profile.TrainingPlace,
		&profile.HasDietaryRestrictions,
		&profile.DietaryRestrictions,
		&profile.UsesSupplements,
		&profile.SteroidInterest,
		&profile.SubscriptionPlan,
		&profile.SubscriptionStartDate,
		&profile.SubscriptionEndDate,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
