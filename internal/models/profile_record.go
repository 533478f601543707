package models

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

var allowedGenders = map[string]struct{}{
	"male":              {},
	"female":            {},
	"other":             {},
	"prefer_not_to_say": {},
}

var allowedFitnessLevels = map[string]struct{}{
	"beginner":     {},
	"intermediate": {},
	"advanced":     {},
}

var allowedSteroidInterest = map[string]struct{}{
	SteroidInterestYes:          {},
	SteroidInterestNo:           {},
	SteroidInterestNeedMoreInfo: {},
}

// Violations maps a field name to what is wrong with it.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Err returns nil when there are no violations.
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Fields: v}
}

type ValidationError struct {
	Fields Violations
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+" "+e.Fields[key])
	}
	return "invalid profile: " + strings.Join(parts, "; ")
}

var subscriptionKeys = []string{
	"subscription_plan",
	"subscription_start_date",
	"subscription_end_date",
}

// WithoutSubscriptionKeys copies record minus the subscription keys, so a
// record from an untrusted source is neither validated nor written on them.
func WithoutSubscriptionKeys(record map[string]any) map[string]any {
	out := make(map[string]any, len(record))
	for key, value := range record {
		out[key] = value
	}
	for _, key := range subscriptionKeys {
		delete(out, key)
	}
	return out
}

// PatchFromRecord turns a flat key/value profile (an export row, a guest
// profile, an edit request body) into a validated patch. Unknown keys and
// the store-owned keys id, user_id, created_at and updated_at are ignored;
// null values count as absent. Numbers may arrive as JSON numbers or as
// numeric strings but must be finite.
func PatchFromRecord(record map[string]any) (ProfilePatch, error) {
	var patch ProfilePatch
	v := Violations{}

	patch.Name = stringField(record, "name", v)
	patch.Gender = stringField(record, "gender", v)
	patch.Goal = stringField(record, "goal", v)
	patch.FitnessLevel = stringField(record, "fitness_level", v)
	patch.TrainingPlace = stringField(record, "training_place", v)
	patch.DietaryRestrictions = stringField(record, "dietary_restrictions", v)
	patch.SteroidInterest = stringField(record, "steroid_interest", v)
	patch.SubscriptionPlan = stringField(record, "subscription_plan", v)

	patch.Age = intField(record, "age", v)
	patch.TrainingDays = intField(record, "training_days", v)
	patch.Height = floatField(record, "height", v)
	patch.Weight = floatField(record, "weight", v)
	patch.TargetWeight = floatField(record, "target_weight", v)

	patch.HasDietaryRestrictions = boolField(record, "has_dietary_restrictions", v)
	patch.UsesSupplements = boolField(record, "uses_supplements", v)

	patch.SubscriptionStartDate = timeField(record, "subscription_start_date", v)
	patch.SubscriptionEndDate = timeField(record, "subscription_end_date", v)

	if err := v.Err(); err != nil {
		return ProfilePatch{}, err
	}
	if err := patch.Validate(); err != nil {
		return ProfilePatch{}, err
	}
	return patch, nil
}

// Validate checks ranges and enumerations of the present fields.
func (p ProfilePatch) Validate() error {
	v := Violations{}

	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		v["name"] = "must not be empty"
	}
	if p.Age != nil && (*p.Age <= 0 || *p.Age > 120) {
		v["age"] = "must be between 1 and 120"
	}
	if p.Gender != nil {
		if _, ok := allowedGenders[strings.TrimSpace(*p.Gender)]; !ok {
			v["gender"] = "must be one of: male, female, other, prefer_not_to_say"
		}
	}
	if p.Height != nil && *p.Height <= 0 {
		v["height"] = "must be greater than 0"
	}
	if p.Weight != nil && *p.Weight <= 0 {
		v["weight"] = "must be greater than 0"
	}
	if p.TargetWeight != nil && *p.TargetWeight <= 0 {
		v["target_weight"] = "must be greater than 0"
	}
	if p.Goal != nil && strings.TrimSpace(*p.Goal) == "" {
		v["goal"] = "must not be empty"
	}
	if p.FitnessLevel != nil {
		if _, ok := allowedFitnessLevels[strings.TrimSpace(*p.FitnessLevel)]; !ok {
			v["fitness_level"] = "must be one of: beginner, intermediate, advanced"
		}
	}
	if p.TrainingDays != nil && (*p.TrainingDays < 1 || *p.TrainingDays > 7) {
		v["training_days"] = "must be between 1 and 7"
	}
	if p.TrainingPlace != nil && strings.TrimSpace(*p.TrainingPlace) == "" {
		v["training_place"] = "must not be empty"
	}
	if p.SteroidInterest != nil {
		if _, ok := allowedSteroidInterest[strings.TrimSpace(*p.SteroidInterest)]; !ok {
			v["steroid_interest"] = "must be one of: yes, no, need-more-info"
		}
	}
	if p.SubscriptionPlan != nil {
		if _, err := ParsePlan(*p.SubscriptionPlan); err != nil {
			v["subscription_plan"] = "must be one of: basic, pro, ultimate"
		}
	}

	return v.Err()
}

func stringField(record map[string]any, key string, v Violations) *string {
	raw, ok := record[key]
	if !ok || raw == nil {
		return nil
	}
	value, ok := raw.(string)
	if !ok {
		v[key] = "must be a string"
		return nil
	}
	return &value
}

func floatField(record map[string]any, key string, v Violations) *float64 {
	raw, ok := record[key]
	if !ok || raw == nil {
		return nil
	}
	value, err := toFloat(raw)
	if err != nil {
		v[key] = "must be a number"
		return nil
	}
	return &value
}

func intField(record map[string]any, key string, v Violations) *int {
	raw, ok := record[key]
	if !ok || raw == nil {
		return nil
	}
	value, err := toFloat(raw)
	if err != nil {
		v[key] = "must be a number"
		return nil
	}
	if value != math.Trunc(value) || math.Abs(value) > math.MaxInt32 {
		v[key] = "must be a whole number"
		return nil
	}
	n := int(value)
	return &n
}

func boolField(record map[string]any, key string, v Violations) *bool {
	raw, ok := record[key]
	if !ok || raw == nil {
		return nil
	}
	switch value := raw.(type) {
	case bool:
		return &value
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			v[key] = "must be true or false"
			return nil
		}
		return &parsed
	default:
		v[key] = "must be true or false"
		return nil
	}
}

func timeField(record map[string]any, key string, v Violations) *time.Time {
	raw, ok := record[key]
	if !ok || raw == nil {
		return nil
	}
	switch value := raw.(type) {
	case time.Time:
		return &value
	case string:
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
		if err != nil {
			v[key] = "must be an RFC 3339 timestamp"
			return nil
		}
		return &parsed
	default:
		v[key] = "must be an RFC 3339 timestamp"
		return nil
	}
}

func toFloat(raw any) (float64, error) {
	var value float64
	switch typed := raw.(type) {
	case json.Number:
		parsed, err := typed.Float64()
		if err != nil {
			return 0, err
		}
		value = parsed
	case float64:
		value = typed
	case int:
		value = float64(typed)
	case int32:
		value = float64(typed)
	case int64:
		value = float64(typed)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, err
		}
		value = parsed
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", raw)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("non-finite number")
	}
	return value, nil
}
