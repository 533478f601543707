package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/repository"
	"github.com/atakamran/liftlegends-sub000/pkg/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const PostgresName = "postgres"

const pgUniqueViolation = "23505"

// Postgres is the relational backend: row-per-profile tables keyed by a
// UUID user id, Supabase-style.
type Postgres struct {
	users     *repository.UserRepository
	profiles  *repository.UserProfileRepository
	exercises *repository.CompletedExerciseRepository
}

func NewPostgres(db repository.DBTX) *Postgres {
	return &Postgres{
		users:     repository.NewUserRepository(db),
		profiles:  repository.NewUserProfileRepository(db),
		exercises: repository.NewCompletedExerciseRepository(db),
	}
}

func (p *Postgres) Name() string { return PostgresName }

func (p *Postgres) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: hashed}
	if err := p.users.CreateUser(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return identityFromUser(user), nil
}

func (p *Postgres) SignInWithPassword(ctx context.Context, email, password string) (*Identity, error) {
	user, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return identityFromUser(user), nil
}

func (p *Postgres) GetUser(ctx context.Context, id string) (*Identity, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	user, err := p.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapPgErr(err)
	}
	return identityFromUser(user), nil
}

func (p *Postgres) ListProfiles(ctx context.Context, userID string) ([]models.UserProfile, error) {
	return p.profiles.ListByUserID(ctx, userID)
}

func (p *Postgres) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := p.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, mapPgErr(err)
	}
	return profile, nil
}

func (p *Postgres) EnsureProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if err := p.profiles.CreateEmpty(ctx, userID); err != nil {
		return nil, err
	}
	return p.GetProfile(ctx, userID)
}

func (p *Postgres) MergeProfile(ctx context.Context, userID string, patch models.ProfilePatch) (*models.UserProfile, error) {
	return p.profiles.Upsert(ctx, userID, patch)
}

func (p *Postgres) DeleteProfile(ctx context.Context, userID string) error {
	deleted, err := p.profiles.DeleteByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) ToggleExercise(ctx context.Context, userID, day, name string, at time.Time) (bool, error) {
	return p.exercises.Toggle(ctx, userID, strings.TrimSpace(day), strings.TrimSpace(name), at)
}

func (p *Postgres) ListExercises(ctx context.Context, userID string) ([]models.CompletedExercise, error) {
	return p.exercises.ListByUserID(ctx, userID)
}

func identityFromUser(user *models.User) *Identity {
	return &Identity{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt}
}

func mapPgErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
