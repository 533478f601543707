package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/atakamran/liftlegends-sub000/internal/backend"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/session"
	"github.com/atakamran/liftlegends-sub000/pkg/utils"
	"go.uber.org/zap"
)

const minPasswordLength = 8

type AuthResult struct {
	Session *session.Session
	Token   string
	Profile *models.UserProfile
}

type AuthService struct {
	jwtSecret string
	tokenTTL  time.Duration
	logger    *zap.Logger
}

func NewAuthService(jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Credentials normalizes and checks an email/password pair without
// touching any backend.
func Credentials(email, password string) (string, error) {
	v := models.Violations{}
	parsed, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		v["email"] = "must be a valid email address"
	}
	if len(password) < minPasswordLength {
		v["password"] = fmt.Sprintf("must be at least %d characters", minPasswordLength)
	}
	if err := v.Err(); err != nil {
		return "", validationErr(err)
	}
	return strings.ToLower(parsed.Address), nil
}

// SignUp creates the identity and its empty profile row on b.
func (s *AuthService) SignUp(ctx context.Context, b backend.Backend, email, password string) (*AuthResult, error) {
	normalized, err := Credentials(email, password)
	if err != nil {
		return nil, err
	}

	identity, err := b.SignUp(ctx, normalized, password)
	if err != nil {
		if errors.Is(err, backend.ErrEmailTaken) {
			return nil, err
		}
		return nil, writeErr(err)
	}

	profile, err := b.EnsureProfile(ctx, identity.ID)
	if err != nil {
		s.logger.Error("create profile after sign-up",
			zap.String("backend", b.Name()),
			zap.String("user_id", identity.ID),
			zap.Error(err))
		return nil, writeErr(err)
	}

	return s.issue(session.New(b, *identity), profile)
}

// SignIn authenticates on b, creating the profile row if an older account
// never got one.
func (s *AuthService) SignIn(ctx context.Context, b backend.Backend, email, password string) (*AuthResult, error) {
	normalized, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return nil, backend.ErrInvalidCredentials
	}

	identity, err := b.SignInWithPassword(ctx, strings.ToLower(normalized.Address), password)
	if err != nil {
		return nil, err
	}

	profile, err := b.EnsureProfile(ctx, identity.ID)
	if err != nil {
		return nil, writeErr(err)
	}

	return s.issue(session.New(b, *identity), profile)
}

// Refresh re-checks that the session's identity still exists and issues a
// fresh token for it.
func (s *AuthService) Refresh(ctx context.Context, sess *session.Session) (*AuthResult, error) {
	if !sess.Valid() {
		return nil, ErrNotAuthenticated
	}

	identity, err := sess.Backend.GetUser(ctx, sess.UserID())
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}

	return s.issue(session.New(sess.Backend, *identity), nil)
}

// Me returns the session's identity together with its profile, creating
// the profile lazily.
func (s *AuthService) Me(ctx context.Context, sess *session.Session) (*backend.Identity, *models.UserProfile, error) {
	if !sess.Valid() {
		return nil, nil, ErrNotAuthenticated
	}

	identity, err := sess.Backend.GetUser(ctx, sess.UserID())
	if err != nil {
		return nil, nil, readErr(err)
	}

	profile, err := sess.Backend.EnsureProfile(ctx, identity.ID)
	if err != nil {
		return nil, nil, writeErr(err)
	}
	return identity, profile, nil
}

func (s *AuthService) issue(sess *session.Session, profile *models.UserProfile) (*AuthResult, error) {
	token, err := utils.GenerateToken(utils.TokenSubject{
		UserID:  sess.Identity.ID,
		Email:   sess.Identity.Email,
		Backend: sess.BackendName(),
	}, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResult{Session: sess, Token: token, Profile: profile}, nil
}
