package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/atakamran/liftlegends-sub000/internal/backend"
	"github.com/atakamran/liftlegends-sub000/internal/mailer"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/session"
	"go.uber.org/zap"
)

type ImportResult struct {
	Imported bool                `json:"imported"`
	Profile  *models.UserProfile `json:"profile,omitempty"`
}

// MigrationService moves profile data between backends that share no
// identity space. Export and import each run against one authenticated
// session; nothing here holds state across calls.
type MigrationService struct {
	auth          *AuthService
	notifier      mailer.Notifier
	notifyTimeout time.Duration
	logger        *zap.Logger
}

// defaultNotifyTimeout bounds how long a migration response waits on mail.
const defaultNotifyTimeout = 3 * time.Second

func NewMigrationService(auth *AuthService, notifier mailer.Notifier, logger *zap.Logger) *MigrationService {
	return &MigrationService{
		auth:          auth,
		notifier:      notifier,
		notifyTimeout: defaultNotifyTimeout,
		logger:        logger,
	}
}

// ExportProfile snapshots the caller's identity and every profile row it
// owns. The identity is taken from the session, never from input.
func (s *MigrationService) ExportProfile(ctx context.Context, sess *session.Session) (*models.ExportDocument, error) {
	if !sess.Valid() {
		return nil, ErrNotAuthenticated
	}

	identity, err := sess.Backend.GetUser(ctx, sess.UserID())
	if errors.Is(err, backend.ErrNotFound) {
		return nil, ErrNotAuthenticated
	}
	if err != nil {
		return nil, readErr(err)
	}

	profiles, err := sess.Backend.ListProfiles(ctx, identity.ID)
	if err != nil {
		return nil, readErr(err)
	}
	if profiles == nil {
		profiles = []models.UserProfile{}
	}

	return &models.ExportDocument{
		User: models.ExportUser{
			ID:        identity.ID,
			Email:     identity.Email,
			CreatedAt: identity.CreatedAt.UTC().Format(time.RFC3339),
		},
		Profiles: profiles,
	}, nil
}

type importDocument struct {
	Profiles []map[string]any `json:"profiles"`
}

// ParseExportDocument decodes an export file. Numbers are kept as
// json.Number so integral fields are checked without float rounding.
func ParseExportDocument(raw []byte) ([]map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var doc importDocument
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("%w: unexpected data after document", ErrParse)
	}
	return doc.Profiles, nil
}

// ImportProfile merges the first profile row of raw into the caller's
// profile. Fields missing from the row keep their stored values. The row's
// own identity reference and subscription fields are ignored.
func (s *MigrationService) ImportProfile(ctx context.Context, sess *session.Session, raw []byte) (*ImportResult, error) {
	if !sess.Valid() {
		return nil, ErrNotAuthenticated
	}

	rows, err := ParseExportDocument(raw)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &ImportResult{Imported: false}, nil
	}
	if len(rows) > 1 {
		s.logger.Info("import document has several profiles, using the first",
			zap.String("backend", sess.BackendName()),
			zap.String("user_id", sess.UserID()),
			zap.Int("rows", len(rows)))
	}

	patch, err := models.PatchFromRecord(models.WithoutSubscriptionKeys(rows[0]))
	if err != nil {
		return nil, validationErr(err)
	}

	profile, err := s.write(ctx, sess.Backend, sess.UserID(), patch)
	if err != nil {
		s.logger.Error("import profile",
			zap.String("backend", sess.BackendName()),
			zap.String("user_id", sess.UserID()),
			zap.Error(err))
		return nil, writeErr(err)
	}

	s.notify(ctx, sess)
	return &ImportResult{Imported: true, Profile: profile}, nil
}

// MigrateInPlace creates an account on dst and copies a guest profile into
// it. Input is checked before any backend call. The caller keeps the guest
// data; it is safe to discard only after this returns without error.
func (s *MigrationService) MigrateInPlace(ctx context.Context, dst backend.Backend, email, password string, guest map[string]any) (*AuthResult, error) {
	if dst == nil {
		return nil, ErrNotFound
	}
	if _, err := Credentials(email, password); err != nil {
		return nil, err
	}
	patch, err := models.PatchFromRecord(models.WithoutSubscriptionKeys(guest))
	if err != nil {
		return nil, validationErr(err)
	}

	result, err := s.auth.SignUp(ctx, dst, email, password)
	if err != nil {
		return nil, err
	}

	if !patch.Empty() {
		profile, err := dst.MergeProfile(ctx, result.Session.UserID(), patch)
		if err != nil {
			s.logger.Error("copy guest profile",
				zap.String("backend", dst.Name()),
				zap.String("user_id", result.Session.UserID()),
				zap.Error(err))
			return nil, writeErr(err)
		}
		result.Profile = profile
	}

	s.notify(ctx, result.Session)
	return result, nil
}

func (s *MigrationService) write(ctx context.Context, b backend.Backend, userID string, patch models.ProfilePatch) (*models.UserProfile, error) {
	if patch.Empty() {
		return b.EnsureProfile(ctx, userID)
	}
	return b.MergeProfile(ctx, userID, patch)
}

func (s *MigrationService) notify(ctx context.Context, sess *session.Session) {
	if s.notifier == nil || sess.Identity.Email == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	message := mailer.MigrationComplete(sess.Identity.Email, sess.BackendName())
	if err := s.notifier.Send(ctx, message); err != nil {
		s.logger.Warn("send migration mail",
			zap.String("backend", sess.BackendName()),
			zap.String("user_id", sess.UserID()),
			zap.Error(err))
	}
}
