package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atakamran/liftlegends-sub000/internal/backend"
	"github.com/atakamran/liftlegends-sub000/internal/middleware"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/services"
	"github.com/atakamran/liftlegends-sub000/internal/session"
	"github.com/gofiber/fiber/v2"
)

type migrationApplicationService interface {
	ExportProfile(ctx context.Context, sess *session.Session) (*models.ExportDocument, error)
	ImportProfile(ctx context.Context, sess *session.Session, raw []byte) (*services.ImportResult, error)
	MigrateInPlace(ctx context.Context, dst backend.Backend, email, password string, guest map[string]any) (*services.AuthResult, error)
}

type MigrationHandler struct {
	service migrationApplicationService
	now     func() time.Time
}

func NewMigrationHandler(service migrationApplicationService) *MigrationHandler {
	return &MigrationHandler{service: service, now: time.Now}
}

// Export serves the caller's profile snapshot as a file download.
func (h *MigrationHandler) Export(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	doc, err := h.service.ExportProfile(c.Context(), sess)
	if err != nil {
		return respondError(c, err)
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}

	filename := models.ExportFilename(sess.BackendName(), h.now())
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(payload)
}

// Import takes an export document as the raw request body.
func (h *MigrationHandler) Import(c *fiber.Ctx) error {
	result, err := h.service.ImportProfile(c.Context(), middleware.SessionFrom(c), c.Body())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"imported": result.Imported,
		"profile":  result.Profile,
	})
}

// Guest signs up on the route's backend and copies the locally stored
// guest profile into the new account.
func (h *MigrationHandler) Guest(c *fiber.Ctx) error {
	var req guestMigrationRequest
	if err := decodeJSON(c, &req); err != nil {
		return invalidBody(c)
	}

	result, err := h.service.MigrateInPlace(c.Context(), middleware.BackendFrom(c), req.Email, req.Password, req.Profile)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(authResponse(result))
}
