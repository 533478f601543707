package services

import (
	"context"
	"errors"

	"github.com/atakamran/liftlegends-sub000/internal/backend"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/session"
)

var errSubscriptionViaProfile = errors.New("subscription fields are changed through the subscription endpoint")

type ProfileService struct{}

func NewProfileService() *ProfileService {
	return &ProfileService{}
}

func (s *ProfileService) GetProfile(ctx context.Context, sess *session.Session) (*models.UserProfile, error) {
	if !sess.Valid() {
		return nil, ErrNotAuthenticated
	}
	profile, err := sess.Backend.GetProfile(ctx, sess.UserID())
	if err != nil {
		return nil, readErr(err)
	}
	return profile, nil
}

// UpdateProfile validates the flat record and merges it into the caller's
// profile. Validation happens before any backend call.
func (s *ProfileService) UpdateProfile(ctx context.Context, sess *session.Session, record map[string]any) (*models.UserProfile, error) {
	if !sess.Valid() {
		return nil, ErrNotAuthenticated
	}

	patch, err := models.PatchFromRecord(record)
	if err != nil {
		return nil, validationErr(err)
	}
	if patch.HasSubscriptionFields() {
		return nil, validationErr(&models.ValidationError{Fields: models.Violations{
			"subscription_plan": errSubscriptionViaProfile.Error(),
		}})
	}

	profile, err := sess.Backend.MergeProfile(ctx, sess.UserID(), patch)
	if err != nil {
		return nil, writeErr(err)
	}
	return profile, nil
}

func (s *ProfileService) DeleteProfile(ctx context.Context, sess *session.Session) error {
	if !sess.Valid() {
		return ErrNotAuthenticated
	}
	if err := sess.Backend.DeleteProfile(ctx, sess.UserID()); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return readErr(err)
		}
		return writeErr(err)
	}
	return nil
}
