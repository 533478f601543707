package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/gofiber/fiber/v2"
)

// decodeJSON reads the body into dst keeping numbers as json.Number, so
// profile records are validated from their literal values.
func decodeJSON(c *fiber.Ctx, dst any) error {
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.UseNumber()
	return decoder.Decode(dst)
}

func invalidBody(c *fiber.Ctx) error {
	return fail(c, fiber.StatusBadRequest, "parse_error", "Invalid request body")
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type guestMigrationRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Profile  map[string]any `json:"profile"`
}

type subscriptionRequest struct {
	Plan           string      `json:"plan"`
	DurationMonths json.Number `json:"duration_months"`
}

const maxSubscriptionMonths = 120

// months reads duration_months. A missing value is 0, which the service
// treats as one month; anything that is not a whole number is rejected.
func (r subscriptionRequest) months() (int, error) {
	if r.DurationMonths == "" {
		return 0, nil
	}
	n, err := r.DurationMonths.Int64()
	if err != nil {
		return 0, &models.ValidationError{Fields: models.Violations{
			"duration_months": "must be a whole number",
		}}
	}
	if n > maxSubscriptionMonths {
		return maxSubscriptionMonths, nil
	}
	return int(n), nil
}

type toggleExerciseRequest struct {
	Day          string `json:"day"`
	ExerciseName string `json:"exercise_name"`
}

type askRequest struct {
	Message string `json:"message"`
}
