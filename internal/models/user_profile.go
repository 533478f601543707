package models

import "time"

const (
	SteroidInterestYes          = "yes"
	SteroidInterestNo           = "no"
	SteroidInterestNeedMoreInfo = "need-more-info"
)

// UserProfile is the canonical profile row. Every column except the identity
// reference is optional; both backends store and return the same shape.
type UserProfile struct {
	ID                     int64      `json:"id,omitempty" bson:"-"`
	UserID                 string     `json:"user_id" bson:"user_id"`
	Name                   *string    `json:"name,omitempty" bson:"name,omitempty"`
	Age                    *int       `json:"age,omitempty" bson:"age,omitempty"`
	Gender                 *string    `json:"gender,omitempty" bson:"gender,omitempty"`
	Height                 *float64   `json:"height,omitempty" bson:"height,omitempty"`
	Weight                 *float64   `json:"weight,omitempty" bson:"weight,omitempty"`
	TargetWeight           *float64   `json:"target_weight,omitempty" bson:"target_weight,omitempty"`
	Goal                   *string    `json:"goal,omitempty" bson:"goal,omitempty"`
	FitnessLevel           *string    `json:"fitness_level,omitempty" bson:"fitness_level,omitempty"`
	TrainingDays           *int       `json:"training_days,omitempty" bson:"training_days,omitempty"`
	TrainingPlace          *string    `json:"training_place,omitempty" bson:"training_place,omitempty"`
	HasDietaryRestrictions *bool      `json:"has_dietary_restrictions,omitempty" bson:"has_dietary_restrictions,omitempty"`
	DietaryRestrictions    *string    `json:"dietary_restrictions,omitempty" bson:"dietary_restrictions,omitempty"`
	UsesSupplements        *bool      `json:"uses_supplements,omitempty" bson:"uses_supplements,omitempty"`
	SteroidInterest        *string    `json:"steroid_interest,omitempty" bson:"steroid_interest,omitempty"`
	SubscriptionPlan       *string    `json:"subscription_plan,omitempty" bson:"subscription_plan,omitempty"`
	SubscriptionStartDate  *time.Time `json:"subscription_start_date,omitempty" bson:"subscription_start_date,omitempty"`
	SubscriptionEndDate    *time.Time `json:"subscription_end_date,omitempty" bson:"subscription_end_date,omitempty"`
	CreatedAt              time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at" bson:"updated_at"`
}

// Plan returns the stored plan, falling back to basic when the value is
// missing or not a known plan.
func (p *UserProfile) Plan() Plan {
	if p == nil || p.SubscriptionPlan == nil {
		return PlanBasic
	}
	plan, err := ParsePlan(*p.SubscriptionPlan)
	if err != nil {
		return PlanBasic
	}
	return plan
}

// ProfileField is one column/value pair of a merge.
type ProfileField struct {
	Column string
	Value  any
}

// ProfilePatch carries the fields of a profile write. A nil field means
// "keep what the store has"; a non-nil field replaces the stored value.
// The identity reference is never part of a patch.
type ProfilePatch struct {
	Name                   *string
	Age                    *int
	Gender                 *string
	Height                 *float64
	Weight                 *float64
	TargetWeight           *float64
	Goal                   *string
	FitnessLevel           *string
	TrainingDays           *int
	TrainingPlace          *string
	HasDietaryRestrictions *bool
	DietaryRestrictions    *string
	UsesSupplements        *bool
	SteroidInterest        *string
	SubscriptionPlan       *string
	SubscriptionStartDate  *time.Time
	SubscriptionEndDate    *time.Time
}

// Fields lists the present fields in column order. Both backends build
// their upserts from this list, so it is the one place merge precedence is
// decided.
func (p ProfilePatch) Fields() []ProfileField {
	var fields []ProfileField
	add := func(column string, present bool, value func() any) {
		if present {
			fields = append(fields, ProfileField{Column: column, Value: value()})
		}
	}

	add("name", p.Name != nil, func() any { return *p.Name })
	add("age", p.Age != nil, func() any { return *p.Age })
	add("gender", p.Gender != nil, func() any { return *p.Gender })
	add("height", p.Height != nil, func() any { return *p.Height })
	add("weight", p.Weight != nil, func() any { return *p.Weight })
	add("target_weight", p.TargetWeight != nil, func() any { return *p.TargetWeight })
	add("goal", p.Goal != nil, func() any { return *p.Goal })
	add("fitness_level", p.FitnessLevel != nil, func() any { return *p.FitnessLevel })
	add("training_days", p.TrainingDays != nil, func() any { return *p.TrainingDays })
	add("training_place", p.TrainingPlace != nil, func() any { return *p.TrainingPlace })
	add("has_dietary_restrictions", p.HasDietaryRestrictions != nil, func() any { return *p.HasDietaryRestrictions })
	add("dietary_restrictions", p.DietaryRestrictions != nil, func() any { return *p.DietaryRestrictions })
	add("uses_supplements", p.UsesSupplements != nil, func() any { return *p.UsesSupplements })
	add("steroid_interest", p.SteroidInterest != nil, func() any { return *p.SteroidInterest })
	add("subscription_plan", p.SubscriptionPlan != nil, func() any { return *p.SubscriptionPlan })
	add("subscription_start_date", p.SubscriptionStartDate != nil, func() any { return p.SubscriptionStartDate.UTC() })
	add("subscription_end_date", p.SubscriptionEndDate != nil, func() any { return p.SubscriptionEndDate.UTC() })

	return fields
}

// Empty reports whether the patch would change nothing.
func (p ProfilePatch) Empty() bool {
	return len(p.Fields()) == 0
}

// HasSubscriptionFields reports whether the patch touches plan or dates.
func (p ProfilePatch) HasSubscriptionFields() bool {
	return p.SubscriptionPlan != nil || p.SubscriptionStartDate != nil || p.SubscriptionEndDate != nil
}
