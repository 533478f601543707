package services

import (
	"errors"
	"fmt"

	"github.com/atakamran/liftlegends-sub000/internal/backend"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotFound         = errors.New("not found")
	ErrParse            = errors.New("malformed document")
	ErrWrite            = errors.New("write rejected")
	ErrValidation       = errors.New("validation failed")
	ErrFeatureLocked    = errors.New("feature not included in current subscription")
)

// writeErr tags a backend write failure, keeping the backend's message.
func writeErr(err error) error {
	return fmt.Errorf("%w: %w", ErrWrite, err)
}

// validationErr tags a field-level failure; errors.As still reaches the
// *models.ValidationError underneath.
func validationErr(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// readErr maps a backend read failure, folding the backend's not-found into
// ours.
func readErr(err error) error {
	if errors.Is(err, backend.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
