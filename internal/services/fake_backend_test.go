package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/atakamran/liftlegends-sub000/internal/backend"
	"github.com/atakamran/liftlegends-sub000/internal/mailer"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/session"
)

type fakeUser struct {
	identity backend.Identity
	password string
}

// fakeBackend is an in-memory backend that merges patches column by column
// the same way the real stores do.
type fakeBackend struct {
	mu        sync.Mutex
	name      string
	users     map[string]fakeUser
	profiles  map[string]*models.UserProfile
	exercises map[string]models.CompletedExercise
	nextID    int
	calls     int

	signUpErr     error
	getUserErr    error
	getProfileErr error
	listErr       error
	mergeErr      error
}

func newFakeBackend(name string) *fakeBackend {
	return &fakeBackend{
		name:      name,
		users:     map[string]fakeUser{},
		profiles:  map[string]*models.UserProfile{},
		exercises: map[string]models.CompletedExercise{},
	}
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) addUser(email string) backend.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	identity := backend.Identity{
		ID:        fmt.Sprintf("%s-user-%d", f.name, f.nextID),
		Email:     email,
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	f.users[identity.ID] = fakeUser{identity: identity, password: "password123"}
	return identity
}

func (f *fakeBackend) session(identity backend.Identity) *session.Session {
	return session.New(f, identity)
}

func (f *fakeBackend) SignUp(_ context.Context, email, password string) (*backend.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	for _, user := range f.users {
		if user.identity.Email == email {
			return nil, backend.ErrEmailTaken
		}
	}
	f.nextID++
	identity := backend.Identity{
		ID:        fmt.Sprintf("%s-user-%d", f.name, f.nextID),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	f.users[identity.ID] = fakeUser{identity: identity, password: password}
	return &identity, nil
}

func (f *fakeBackend) SignInWithPassword(_ context.Context, email, password string) (*backend.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for _, user := range f.users {
		if user.identity.Email == email && user.password == password {
			identity := user.identity
			return &identity, nil
		}
	}
	return nil, backend.ErrInvalidCredentials
}

func (f *fakeBackend) GetUser(_ context.Context, id string) (*backend.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	user, ok := f.users[id]
	if !ok {
		return nil, backend.ErrNotFound
	}
	identity := user.identity
	return &identity, nil
}

func (f *fakeBackend) ListProfiles(_ context.Context, userID string) ([]models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	return []models.UserProfile{*profile}, nil
}

func (f *fakeBackend) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.getProfileErr != nil {
		return nil, f.getProfileErr
	}
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, backend.ErrNotFound
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeBackend) EnsureProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	profile, ok := f.profiles[userID]
	if !ok {
		basic := string(models.PlanBasic)
		now := time.Now().UTC()
		profile = &models.UserProfile{UserID: userID, SubscriptionPlan: &basic, CreatedAt: now, UpdatedAt: now}
		f.profiles[userID] = profile
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeBackend) MergeProfile(_ context.Context, userID string, patch models.ProfilePatch) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.mergeErr != nil {
		return nil, f.mergeErr
	}
	profile, ok := f.profiles[userID]
	if !ok {
		profile = &models.UserProfile{UserID: userID, CreatedAt: time.Now().UTC()}
		f.profiles[userID] = profile
	}
	for _, field := range patch.Fields() {
		applyField(profile, field)
	}
	profile.UpdatedAt = time.Now().UTC()
	copied := *profile
	return &copied, nil
}

func (f *fakeBackend) DeleteProfile(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if _, ok := f.profiles[userID]; !ok {
		return backend.ErrNotFound
	}
	delete(f.profiles, userID)
	return nil
}

func (f *fakeBackend) ToggleExercise(_ context.Context, userID, day, name string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	key := userID + "|" + day + "|" + name
	if _, ok := f.exercises[key]; ok {
		delete(f.exercises, key)
		return false, nil
	}
	f.exercises[key] = models.CompletedExercise{
		ID:           key,
		UserID:       userID,
		Day:          day,
		ExerciseName: name,
		CompletedAt:  at,
	}
	return true, nil
}

func (f *fakeBackend) ListExercises(_ context.Context, userID string) ([]models.CompletedExercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	var out []models.CompletedExercise
	for _, exercise := range f.exercises {
		if exercise.UserID == userID {
			out = append(out, exercise)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func applyField(p *models.UserProfile, field models.ProfileField) {
	switch field.Column {
	case "name":
		v := field.Value.(string)
		p.Name = &v
	case "age":
		v := field.Value.(int)
		p.Age = &v
	case "gender":
		v := field.Value.(string)
		p.Gender = &v
	case "height":
		v := field.Value.(float64)
		p.Height = &v
	case "weight":
		v := field.Value.(float64)
		p.Weight = &v
	case "target_weight":
		v := field.Value.(float64)
		p.TargetWeight = &v
	case "goal":
		v := field.Value.(string)
		p.Goal = &v
	case "fitness_level":
		v := field.Value.(string)
		p.FitnessLevel = &v
	case "training_days":
		v := field.Value.(int)
		p.TrainingDays = &v
	case "training_place":
		v := field.Value.(string)
		p.TrainingPlace = &v
	case "has_dietary_restrictions":
		v := field.Value.(bool)
		p.HasDietaryRestrictions = &v
	case "dietary_restrictions":
		v := field.Value.(string)
		p.DietaryRestrictions = &v
	case "uses_supplements":
		v := field.Value.(bool)
		p.UsesSupplements = &v
	case "steroid_interest":
		v := field.Value.(string)
		p.SteroidInterest = &v
	case "subscription_plan":
		v := field.Value.(string)
		p.SubscriptionPlan = &v
	case "subscription_start_date":
		v := field.Value.(time.Time)
		p.SubscriptionStartDate = &v
	case "subscription_end_date":
		v := field.Value.(time.Time)
		p.SubscriptionEndDate = &v
	default:
		panic("unknown profile column " + field.Column)
	}
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, message mailer.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, message)
	return n.err
}

func ptr[T any](v T) *T { return &v }
