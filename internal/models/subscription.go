package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type Plan string

const (
	PlanBasic    Plan = "basic"
	PlanPro      Plan = "pro"
	PlanUltimate Plan = "ultimate"
)

type Feature string

const (
	FeatureAIAssistant Feature = "ai_assistant"
	FeatureFoodPlans   Feature = "food_plans"
	FeatureSupplements Feature = "supplements"
	FeatureSteroids    Feature = "steroids"
)

var planFeatures = map[Plan]map[Feature]struct{}{
	PlanBasic: {},
	PlanPro: {
		FeatureFoodPlans:   {},
		FeatureSupplements: {},
	},
	PlanUltimate: {
		FeatureAIAssistant: {},
		FeatureFoodPlans:   {},
		FeatureSupplements: {},
		FeatureSteroids:    {},
	},
}

func ParsePlan(value string) (Plan, error) {
	plan := Plan(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := planFeatures[plan]; !ok {
		return "", fmt.Errorf("unknown subscription plan %q", value)
	}
	return plan, nil
}

// Allows reports whether the plan's feature set contains feature. It says
// nothing about expiry.
func (p Plan) Allows(feature Feature) bool {
	_, ok := planFeatures[p][feature]
	return ok
}

// Features returns the plan's feature set in a stable order.
func (p Plan) Features() []Feature {
	set := planFeatures[p]
	features := make([]Feature, 0, len(set))
	for feature := range set {
		features = append(features, feature)
	}
	sort.Slice(features, func(i, j int) bool { return features[i] < features[j] })
	return features
}

type Subscription struct {
	Plan      Plan       `json:"plan"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsActive  bool       `json:"is_active"`
}

// ActiveAt applies the liveness rule: a subscription without an end date
// never expires.
func ActiveAt(endDate *time.Time, now time.Time) bool {
	if endDate == nil {
		return true
	}
	return now.Before(*endDate)
}
