package services

import (
	"context"
	"errors"
	"time"

	"github.com/atakamran/liftlegends-sub000/internal/backend"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/session"
	"go.uber.org/zap"
)

const (
	// A plan month is a fixed 30 days, not a calendar month.
	subscriptionMonth = 30 * 24 * time.Hour
	defaultPlanLength = 365 * 24 * time.Hour
)

type SubscriptionService struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewSubscriptionService(logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		logger: logger,
		now:    time.Now,
	}
}

// GetCurrentSubscription reads the plan from the caller's profile. A
// missing row or plan yields an active basic subscription running a year
// from now. Liveness is computed here on every read; nothing writes an
// expired plan back to basic.
func (s *SubscriptionService) GetCurrentSubscription(ctx context.Context, sess *session.Session) (*models.Subscription, error) {
	if !sess.Valid() {
		return nil, ErrNotAuthenticated
	}

	now := s.now()
	profile, err := sess.Backend.GetProfile(ctx, sess.UserID())
	if err != nil && !errors.Is(err, backend.ErrNotFound) {
		return nil, err
	}
	if profile == nil || profile.SubscriptionPlan == nil {
		end := now.Add(defaultPlanLength)
		return &models.Subscription{
			Plan:     models.PlanBasic,
			EndDate:  &end,
			IsActive: true,
		}, nil
	}

	plan, parseErr := models.ParsePlan(*profile.SubscriptionPlan)
	if parseErr != nil {
		s.logger.Warn("unknown stored plan, treating as basic",
			zap.String("backend", sess.BackendName()),
			zap.String("user_id", sess.UserID()),
			zap.String("plan", *profile.SubscriptionPlan))
		plan = models.PlanBasic
	}

	return &models.Subscription{
		Plan:      plan,
		StartDate: profile.SubscriptionStartDate,
		EndDate:   profile.SubscriptionEndDate,
		IsActive:  models.ActiveAt(profile.SubscriptionEndDate, now),
	}, nil
}

// HasFeatureAccess answers whether the caller may use feature right now.
// Any failure to resolve the subscription denies access.
func (s *SubscriptionService) HasFeatureAccess(ctx context.Context, sess *session.Session, feature models.Feature) bool {
	subscription, err := s.GetCurrentSubscription(ctx, sess)
	if err != nil {
		if !errors.Is(err, ErrNotAuthenticated) {
			s.logger.Warn("resolve subscription for feature check",
				zap.String("backend", sess.BackendName()),
				zap.String("user_id", sess.UserID()),
				zap.String("feature", string(feature)),
				zap.Error(err))
		}
		return false
	}
	if subscription == nil || !subscription.IsActive {
		return false
	}
	return subscription.Plan.Allows(feature)
}

// UpdateSubscription overwrites the plan and restarts the period now. Any
// plan may replace any other. Payment is handled elsewhere.
func (s *SubscriptionService) UpdateSubscription(ctx context.Context, sess *session.Session, planName string, durationMonths int) (*models.Subscription, error) {
	if !sess.Valid() {
		return nil, ErrNotAuthenticated
	}

	plan, err := models.ParsePlan(planName)
	if err != nil {
		return nil, validationErr(&models.ValidationError{Fields: models.Violations{
			"plan": "must be one of: basic, pro, ultimate",
		}})
	}
	if durationMonths <= 0 {
		durationMonths = 1
	}

	start := s.now().UTC()
	end := start.Add(time.Duration(durationMonths) * subscriptionMonth)
	planValue := string(plan)

	profile, err := sess.Backend.MergeProfile(ctx, sess.UserID(), models.ProfilePatch{
		SubscriptionPlan:      &planValue,
		SubscriptionStartDate: &start,
		SubscriptionEndDate:   &end,
	})
	if err != nil {
		return nil, writeErr(err)
	}

	s.logger.Info("subscription updated",
		zap.String("backend", sess.BackendName()),
		zap.String("user_id", sess.UserID()),
		zap.String("plan", planValue),
		zap.Int("months", durationMonths))

	return &models.Subscription{
		Plan:      plan,
		StartDate: profile.SubscriptionStartDate,
		EndDate:   profile.SubscriptionEndDate,
		IsActive:  models.ActiveAt(profile.SubscriptionEndDate, s.now()),
	}, nil
}
