package backend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atakamran/liftlegends-sub000/internal/docstore"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/pkg/utils"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const MongoName = "mongo"

// Mongo is the document backend: a user document, a profile document keyed
// by the user id, and one document per completed exercise.
type Mongo struct {
	users     *docstore.UserRepo
	profiles  *docstore.ProfileRepo
	exercises *docstore.ExerciseRepo
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		users:     docstore.NewUserRepo(db),
		profiles:  docstore.NewProfileRepo(db),
		exercises: docstore.NewExerciseRepo(db),
	}
}

func (m *Mongo) Name() string { return MongoName }

// EnsureIndexes creates the unique indexes the toggle and one-profile
// invariants rely on.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	if err := m.users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	if err := m.profiles.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("profile indexes: %w", err)
	}
	if err := m.exercises.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("exercise indexes: %w", err)
	}
	return nil
}

func (m *Mongo) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: hashed}
	if err := m.users.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return identityFromUser(user), nil
}

func (m *Mongo) SignInWithPassword(ctx context.Context, email, password string) (*Identity, error) {
	user, err := m.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return identityFromUser(user), nil
}

func (m *Mongo) GetUser(ctx context.Context, id string) (*Identity, error) {
	user, err := m.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return identityFromUser(user), nil
}

func (m *Mongo) ListProfiles(ctx context.Context, userID string) ([]models.UserProfile, error) {
	return m.profiles.ListByUserID(ctx, userID)
}

func (m *Mongo) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := m.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

func (m *Mongo) EnsureProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if err := m.profiles.CreateEmpty(ctx, userID); err != nil {
		return nil, err
	}
	return m.GetProfile(ctx, userID)
}

func (m *Mongo) MergeProfile(ctx context.Context, userID string, patch models.ProfilePatch) (*models.UserProfile, error) {
	return m.profiles.Merge(ctx, userID, patch)
}

func (m *Mongo) DeleteProfile(ctx context.Context, userID string) error {
	deleted, err := m.profiles.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) ToggleExercise(ctx context.Context, userID, day, name string, at time.Time) (bool, error) {
	return m.exercises.Toggle(ctx, userID, strings.TrimSpace(day), strings.TrimSpace(name), at)
}

func (m *Mongo) ListExercises(ctx context.Context, userID string) ([]models.CompletedExercise, error) {
	return m.exercises.ListByUserID(ctx, userID)
}
