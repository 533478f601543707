// Package backend abstracts the identity and persistence providers a user
// can live on. Each implementation owns its own identity space; nothing in
// this package translates identities between backends.
package backend

import (
	"context"
	"errors"
	"time"

	"github.com/atakamran/liftlegends-sub000/internal/models"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Identity is the authenticated user as the backend knows it.
type Identity struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

type Auth interface {
	SignUp(ctx context.Context, email, password string) (*Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Identity, error)
	GetUser(ctx context.Context, id string) (*Identity, error)
}

// ProfileStore reads and writes profile rows. Every method filters by the
// owning identity; there is no way to address another user's row.
type ProfileStore interface {
	ListProfiles(ctx context.Context, userID string) ([]models.UserProfile, error)
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	// EnsureProfile creates an empty basic-plan row if none exists and
	// returns the row either way.
	EnsureProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	// MergeProfile upserts the patch: present fields overwrite, absent
	// fields keep their stored values.
	MergeProfile(ctx context.Context, userID string, patch models.ProfilePatch) (*models.UserProfile, error)
	DeleteProfile(ctx context.Context, userID string) error
}

type ExerciseStore interface {
	// ToggleExercise removes the (user, day, name) record when it exists and
	// inserts it otherwise. It reports whether the exercise is now completed.
	ToggleExercise(ctx context.Context, userID, day, name string, at time.Time) (bool, error)
	ListExercises(ctx context.Context, userID string) ([]models.CompletedExercise, error)
}

type Backend interface {
	Name() string
	Auth
	ProfileStore
	ExerciseStore
}
