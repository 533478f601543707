package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/atakamran/liftlegends-sub000/internal/backend"
	"github.com/atakamran/liftlegends-sub000/internal/middleware"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/services"
	"github.com/atakamran/liftlegends-sub000/internal/session"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type namedBackend struct {
	backend.Backend
	name string
}

func (b namedBackend) Name() string { return b.name }

var testBackend = namedBackend{name: "postgres"}

func testSession() *session.Session {
	return session.New(testBackend, backend.Identity{ID: "u-42", Email: "sara@example.com"})
}

// newTestApp mounts routes the way the router does, with the backend and
// session locals already resolved.
func newTestApp(withSession bool, mount func(app *fiber.App)) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.BackendKey, backend.Backend(testBackend))
		if withSession {
			c.Locals(middleware.SessionKey, testSession())
		}
		return c.Next()
	})
	mount(app)
	return app
}

type envelope struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields"`
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	return resp, raw
}

func decodeEnvelope(t *testing.T, raw []byte) envelope {
	t.Helper()
	var body envelope
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("Unmarshal %s: %v", raw, err)
	}
	return body
}

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "validation", err: fmt.Errorf("%w: %w", services.ErrValidation, &models.ValidationError{Fields: models.Violations{"age": "must be a number"}}), status: 400, code: "validation_error"},
		{name: "not authenticated", err: services.ErrNotAuthenticated, status: 401, code: "not_authenticated"},
		{name: "not found", err: services.ErrNotFound, status: 404, code: "not_found"},
		{name: "parse", err: services.ErrParse, status: 400, code: "parse_error"},
		{name: "write", err: fmt.Errorf("%w: %w", services.ErrWrite, errors.New("disk full")), status: 502, code: "write_error"},
		{name: "conflict", err: backend.ErrEmailTaken, status: 409, code: "conflict"},
		{name: "credentials", err: backend.ErrInvalidCredentials, status: 401, code: "invalid_credentials"},
		{name: "locked", err: services.ErrFeatureLocked, status: 403, code: "feature_locked"},
		{name: "unexpected", err: errors.New("boom"), status: 500, code: "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(false, func(app *fiber.App) {
				app.Get("/", func(c *fiber.Ctx) error { return respondError(c, tt.err) })
			})
			resp, raw := do(t, app, http.MethodGet, "/", "")
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			body := decodeEnvelope(t, raw)
			if body.Success || body.Code != tt.code {
				t.Fatalf("unexpected envelope: %+v", body)
			}
			if tt.code == "validation_error" && body.Fields["age"] == "" {
				t.Fatalf("expected field details, got %+v", body.Fields)
			}
			if tt.code == "write_error" && !strings.Contains(body.Error, "disk full") {
				t.Fatalf("expected backend message, got %q", body.Error)
			}
			if tt.code == "internal_error" && strings.Contains(body.Error, "boom") {
				t.Fatal("internal error details leaked")
			}
		})
	}
}

func TestUnknownRouteKeepsEnvelope(t *testing.T) {
	app := newTestApp(false, func(app *fiber.App) {})
	resp, raw := do(t, app, http.MethodGet, "/missing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if body := decodeEnvelope(t, raw); body.Code != "not_found" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}

type stubAuthService struct {
	signUpResult *services.AuthResult
	signUpErr    error
	lastBackend  string
	lastEmail    string
}

func (s *stubAuthService) SignUp(_ context.Context, b backend.Backend, email, _ string) (*services.AuthResult, error) {
	s.lastBackend = b.Name()
	s.lastEmail = email
	return s.signUpResult, s.signUpErr
}

func (s *stubAuthService) SignIn(_ context.Context, b backend.Backend, email, _ string) (*services.AuthResult, error) {
	s.lastBackend = b.Name()
	s.lastEmail = email
	return nil, backend.ErrInvalidCredentials
}

func (s *stubAuthService) Refresh(_ context.Context, sess *session.Session) (*services.AuthResult, error) {
	return &services.AuthResult{Session: sess, Token: "refreshed"}, nil
}

func (s *stubAuthService) Me(_ context.Context, sess *session.Session) (*backend.Identity, *models.UserProfile, error) {
	return &sess.Identity, &models.UserProfile{UserID: sess.UserID()}, nil
}

func TestRegisterReturnsTokenAndUser(t *testing.T) {
	service := &stubAuthService{signUpResult: &services.AuthResult{Session: testSession(), Token: "tok"}}
	app := newTestApp(false, func(app *fiber.App) {
		app.Post("/auth/register", NewAuthHandler(service).Register)
	})

	resp, raw := do(t, app, http.MethodPost, "/auth/register", `{"email":"sara@example.com","password":"password123"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, raw)
	}
	var body struct {
		Token string            `json:"token"`
		User  map[string]string `json:"user"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if body.Token != "tok" || body.User["id"] != "u-42" || body.User["backend"] != "postgres" {
		t.Fatalf("unexpected body: %s", raw)
	}
	if service.lastBackend != "postgres" || service.lastEmail != "sara@example.com" {
		t.Fatalf("unexpected forwarded values: %q %q", service.lastBackend, service.lastEmail)
	}
}

func TestRegisterConflictAndBadBody(t *testing.T) {
	service := &stubAuthService{signUpErr: backend.ErrEmailTaken}
	app := newTestApp(false, func(app *fiber.App) {
		app.Post("/auth/register", NewAuthHandler(service).Register)
		app.Post("/auth/login", NewAuthHandler(service).Login)
	})

	resp, _ := do(t, app, http.MethodPost, "/auth/register", `{"email":"a@example.com","password":"password123"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	resp, _ = do(t, app, http.MethodPost, "/auth/register", `{"email":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	resp, raw := do(t, app, http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"nope"}`)
	if resp.StatusCode != http.StatusUnauthorized || decodeEnvelope(t, raw).Code != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials, got %d %s", resp.StatusCode, raw)
	}
}

type stubProfileService struct {
	record    map[string]any
	getResult *models.UserProfile
	getErr    error
}

func (s *stubProfileService) GetProfile(_ context.Context, _ *session.Session) (*models.UserProfile, error) {
	return s.getResult, s.getErr
}

func (s *stubProfileService) UpdateProfile(_ context.Context, _ *session.Session, record map[string]any) (*models.UserProfile, error) {
	s.record = record
	patch, err := models.PatchFromRecord(record)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", services.ErrValidation, err)
	}
	return &models.UserProfile{UserID: "u-42", Name: patch.Name}, nil
}

func (s *stubProfileService) DeleteProfile(_ context.Context, _ *session.Session) error {
	return nil
}

func TestUpdateProfileForwardsRecordWithNumbers(t *testing.T) {
	service := &stubProfileService{}
	app := newTestApp(true, func(app *fiber.App) {
		app.Put("/v1/profile", NewProfileHandler(service).UpdateProfile)
	})

	resp, raw := do(t, app, http.MethodPut, "/v1/profile", `{"name":"Sara","age":29}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, raw)
	}
	if _, ok := service.record["age"].(json.Number); !ok {
		t.Fatalf("expected json.Number for age, got %T", service.record["age"])
	}

	resp, raw = do(t, app, http.MethodPut, "/v1/profile", `{"age":"abc"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body := decodeEnvelope(t, raw); body.Code != "validation_error" || body.Fields["age"] == "" {
		t.Fatalf("unexpected envelope: %+v", body)
	}

	resp, _ = do(t, app, http.MethodPut, "/v1/profile", `[1,2,3]`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-object body, got %d", resp.StatusCode)
	}
}

type stubSubscriptionService struct {
	subscription *models.Subscription
	allowed      bool
	lastPlan     string
	lastMonths   int
}

func (s *stubSubscriptionService) GetCurrentSubscription(_ context.Context, _ *session.Session) (*models.Subscription, error) {
	return s.subscription, nil
}

func (s *stubSubscriptionService) HasFeatureAccess(_ context.Context, _ *session.Session, _ models.Feature) bool {
	return s.allowed
}

func (s *stubSubscriptionService) UpdateSubscription(_ context.Context, _ *session.Session, plan string, months int) (*models.Subscription, error) {
	s.lastPlan = plan
	s.lastMonths = months
	return s.subscription, nil
}

func TestSubscriptionEndpoints(t *testing.T) {
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	service := &stubSubscriptionService{
		subscription: &models.Subscription{Plan: models.PlanPro, EndDate: &end, IsActive: true},
		allowed:      true,
	}
	handler := NewSubscriptionHandler(service)
	app := newTestApp(true, func(app *fiber.App) {
		app.Get("/v1/subscription", handler.GetSubscription)
		app.Put("/v1/subscription", handler.UpdateSubscription)
		app.Get("/v1/features/:feature", handler.CheckFeature)
	})

	resp, raw := do(t, app, http.MethodGet, "/v1/subscription", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Subscription models.Subscription `json:"subscription"`
		Features     []models.Feature    `json:"features"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if body.Subscription.Plan != models.PlanPro || len(body.Features) != 2 {
		t.Fatalf("unexpected body: %s", raw)
	}

	resp, _ = do(t, app, http.MethodPut, "/v1/subscription", `{"plan":"ultimate","duration_months":3}`)
	if resp.StatusCode != http.StatusOK || service.lastPlan != "ultimate" || service.lastMonths != 3 {
		t.Fatalf("unexpected update: %d %q %d", resp.StatusCode, service.lastPlan, service.lastMonths)
	}
	do(t, app, http.MethodPut, "/v1/subscription", `{"plan":"pro"}`)
	if service.lastMonths != 0 {
		t.Fatalf("expected missing duration to forward 0, got %d", service.lastMonths)
	}
	do(t, app, http.MethodPut, "/v1/subscription", `{"plan":"pro","duration_months":"6"}`)
	if service.lastMonths != 6 {
		t.Fatalf("expected numeric string to forward 6, got %d", service.lastMonths)
	}

	for _, body := range []string{
		`{"plan":"pro","duration_months":2.5}`,
		`{"plan":"pro","duration_months":"3.5"}`,
		`{"plan":"pro","duration_months":-1.5}`,
	} {
		service.lastPlan = ""
		resp, raw := do(t, app, http.MethodPut, "/v1/subscription", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, resp.StatusCode)
		}
		if !strings.Contains(string(raw), `"duration_months":"must be a whole number"`) {
			t.Fatalf("%s: unexpected body: %s", body, raw)
		}
		if service.lastPlan != "" {
			t.Fatalf("%s: service should not be called", body)
		}
	}

	_, raw = do(t, app, http.MethodGet, "/v1/features/food_plans", "")
	if !strings.Contains(string(raw), `"allowed":true`) {
		t.Fatalf("unexpected feature body: %s", raw)
	}
}

type stubMigrationService struct {
	doc          *models.ExportDocument
	exportErr    error
	importResult *services.ImportResult
	importErr    error
	lastRaw      []byte
	guestResult  *services.AuthResult
	lastGuest    map[string]any
}

func (s *stubMigrationService) ExportProfile(_ context.Context, _ *session.Session) (*models.ExportDocument, error) {
	return s.doc, s.exportErr
}

func (s *stubMigrationService) ImportProfile(_ context.Context, _ *session.Session, raw []byte) (*services.ImportResult, error) {
	s.lastRaw = raw
	return s.importResult, s.importErr
}

func (s *stubMigrationService) MigrateInPlace(_ context.Context, _ backend.Backend, _, _ string, guest map[string]any) (*services.AuthResult, error) {
	s.lastGuest = guest
	return s.guestResult, nil
}

func TestExportServesAttachment(t *testing.T) {
	service := &stubMigrationService{doc: &models.ExportDocument{
		User:     models.ExportUser{ID: "u-42", Email: "sara@example.com", CreatedAt: "2024-01-01T00:00:00Z"},
		Profiles: []models.UserProfile{},
	}}
	handler := NewMigrationHandler(service)
	handler.now = func() time.Time { return time.UnixMilli(1700000000123) }
	app := newTestApp(true, func(app *fiber.App) {
		app.Get("/v1/migration/export", handler.Export)
	})

	resp, raw := do(t, app, http.MethodGet, "/v1/migration/export", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	want := `attachment; filename="postgres_export_1700000000123.json"`
	if got := resp.Header.Get(fiber.HeaderContentDisposition); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if string(doc["profiles"]) != "[]" {
		t.Fatalf("expected empty profiles array, got %s", doc["profiles"])
	}
}

func TestExportWithoutSessionProducesNoArtifact(t *testing.T) {
	service := &stubMigrationService{exportErr: services.ErrNotAuthenticated}
	app := newTestApp(false, func(app *fiber.App) {
		app.Get("/v1/migration/export", NewMigrationHandler(service).Export)
	})

	resp, _ := do(t, app, http.MethodGet, "/v1/migration/export", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if resp.Header.Get(fiber.HeaderContentDisposition) != "" {
		t.Fatal("unexpected attachment header")
	}
}

func TestImportForwardsRawBody(t *testing.T) {
	service := &stubMigrationService{importResult: &services.ImportResult{Imported: false}}
	app := newTestApp(true, func(app *fiber.App) {
		app.Post("/v1/migration/import", NewMigrationHandler(service).Import)
	})

	resp, raw := do(t, app, http.MethodPost, "/v1/migration/import", `{"profiles":[]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if string(service.lastRaw) != `{"profiles":[]}` || !strings.Contains(string(raw), `"imported":false`) {
		t.Fatalf("unexpected import: %s / %s", service.lastRaw, raw)
	}

	service.importErr = fmt.Errorf("%w: unexpected EOF", services.ErrParse)
	resp, raw = do(t, app, http.MethodPost, "/v1/migration/import", `{"profiles":`)
	if resp.StatusCode != http.StatusBadRequest || decodeEnvelope(t, raw).Code != "parse_error" {
		t.Fatalf("expected parse_error, got %d %s", resp.StatusCode, raw)
	}
}

func TestGuestMigrationCreatesAccount(t *testing.T) {
	service := &stubMigrationService{guestResult: &services.AuthResult{Session: testSession(), Token: "tok"}}
	app := newTestApp(false, func(app *fiber.App) {
		app.Post("/migration/guest", NewMigrationHandler(service).Guest)
	})

	resp, raw := do(t, app, http.MethodPost, "/migration/guest",
		`{"email":"sara@example.com","password":"password123","profile":{"name":"Sara","weight":61.5}}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, raw)
	}
	if service.lastGuest["name"] != "Sara" {
		t.Fatalf("unexpected guest record: %+v", service.lastGuest)
	}
	if _, ok := service.lastGuest["weight"].(json.Number); !ok {
		t.Fatalf("expected json.Number weight, got %T", service.lastGuest["weight"])
	}
}

type stubAssistant struct {
	lastQuestion string
}

func (s *stubAssistant) Ask(_ context.Context, _ *session.Session, question string) (*models.AssistantReply, error) {
	s.lastQuestion = question
	return &models.AssistantReply{Topic: models.TopicGeneral, Question: question, Answer: "Hi Sara!"}, nil
}

func TestAssistantAskAndUpgradeCheck(t *testing.T) {
	service := &stubAssistant{}
	handler := NewAssistantHandler(service, nil)
	app := newTestApp(true, func(app *fiber.App) {
		app.Post("/v1/assistant/messages", handler.Ask)
		app.Get("/v1/assistant/ws", handler.WebSocketUpgrade, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	})

	resp, raw := do(t, app, http.MethodPost, "/v1/assistant/messages", `{"message":"hello"}`)
	if resp.StatusCode != http.StatusOK || service.lastQuestion != "hello" || !strings.Contains(string(raw), "Hi Sara!") {
		t.Fatalf("unexpected ask: %d %s", resp.StatusCode, raw)
	}

	resp, _ = do(t, app, http.MethodGet, "/v1/assistant/ws", "")
	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Fatalf("expected 426, got %d", resp.StatusCode)
	}
}
