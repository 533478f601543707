package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/session"
)

type goalKind string

const (
	goalCut      goalKind = "cut"
	goalBulk     goalKind = "bulk"
	goalMaintain goalKind = "maintain"
)

// calories per kg of body weight for each goal
var calorieFactor = map[goalKind]float64{
	goalCut:      26,
	goalBulk:     36,
	goalMaintain: 31,
}

type FoodPlan struct {
	Goal          string                `json:"goal"`
	DailyCalories *int                  `json:"daily_calories,omitempty"`
	ProteinGrams  *int                  `json:"protein_grams,omitempty"`
	Meals         []models.GuidanceItem `json:"meals"`
	Notes         []string              `json:"notes,omitempty"`
}

// GuidanceService serves the plan-gated content. Callers are expected to
// have passed the feature gate already; this layer only personalizes.
type GuidanceService struct{}

func NewGuidanceService() *GuidanceService {
	return &GuidanceService{}
}

func (s *GuidanceService) FoodPlan(ctx context.Context, sess *session.Session) (*FoodPlan, error) {
	profile, err := guidanceProfile(ctx, sess)
	if err != nil {
		return nil, err
	}

	kind := classifyGoal(profile.Goal)
	plan := &FoodPlan{Goal: string(kind), Meals: mealsFor(kind)}

	if profile.Weight != nil {
		calories := int(math.Round(*profile.Weight*calorieFactor[kind]/50) * 50)
		protein := int(math.Round(*profile.Weight * 2))
		plan.DailyCalories = &calories
		plan.ProteinGrams = &protein
	} else {
		plan.Notes = append(plan.Notes, "Add your weight to your profile to get calorie and protein targets.")
	}
	if profile.HasDietaryRestrictions != nil && *profile.HasDietaryRestrictions {
		restriction := "your dietary restrictions"
		if profile.DietaryRestrictions != nil && strings.TrimSpace(*profile.DietaryRestrictions) != "" {
			restriction = strings.TrimSpace(*profile.DietaryRestrictions)
		}
		plan.Notes = append(plan.Notes, fmt.Sprintf("Swap any meal item that conflicts with %s for an equivalent source.", restriction))
	}
	return plan, nil
}

func (s *GuidanceService) Supplements(ctx context.Context, sess *session.Session) ([]models.GuidanceItem, error) {
	profile, err := guidanceProfile(ctx, sess)
	if err != nil {
		return nil, err
	}

	items := []models.GuidanceItem{
		{Title: "Creatine monohydrate", Detail: "3-5 g daily, any time of day. The most researched strength supplement."},
		{Title: "Whey protein", Detail: "Use to close the gap to your daily protein target, not as a meal replacement."},
		{Title: "Vitamin D3", Detail: "1000-2000 IU daily if you get little sun. Check levels with your doctor."},
	}
	switch classifyGoal(profile.Goal) {
	case goalCut:
		items = append(items, models.GuidanceItem{Title: "Caffeine", Detail: "100-200 mg before training to offset lower energy in a deficit."})
	case goalBulk:
		items = append(items, models.GuidanceItem{Title: "Mass gainer", Detail: "Only if you struggle to hit calories from food."})
	}
	if profile.UsesSupplements != nil && *profile.UsesSupplements {
		items = append(items, models.GuidanceItem{Title: "Review your stack", Detail: "Drop anything that duplicates the basics above."})
	}
	return items, nil
}

func (s *GuidanceService) Steroids(ctx context.Context, sess *session.Session) (*models.GuidanceItem, error) {
	profile, err := guidanceProfile(ctx, sess)
	if err != nil {
		return nil, err
	}

	interest := models.SteroidInterestNeedMoreInfo
	if profile.SteroidInterest != nil {
		interest = *profile.SteroidInterest
	}

	risks := []string{
		"Suppression of natural testosterone production",
		"Unfavourable cholesterol changes and raised blood pressure",
		"Liver strain, especially with oral compounds",
		"Acne, hair loss and mood changes",
	}
	switch interest {
	case models.SteroidInterestNo:
		return &models.GuidanceItem{
			Title:  "Natural training",
			Detail: "You have chosen to train naturally. Progress comes from consistent programming, sleep and nutrition.",
		}, nil
	case models.SteroidInterestYes:
		return &models.GuidanceItem{
			Title:  "Medical supervision first",
			Detail: "Anabolic steroids carry real health risks. Only consider them with a physician, baseline blood work and regular monitoring.",
			Items:  risks,
		}, nil
	default:
		return &models.GuidanceItem{
			Title:  "What you should know",
			Detail: "Anabolic steroids are synthetic hormones with significant side effects. Most lifters can reach their goals without them.",
			Items:  risks,
		}, nil
	}
}

func guidanceProfile(ctx context.Context, sess *session.Session) (*models.UserProfile, error) {
	if !sess.Valid() {
		return nil, ErrNotAuthenticated
	}
	profile, err := sess.Backend.GetProfile(ctx, sess.UserID())
	if err != nil {
		return nil, readErr(err)
	}
	return profile, nil
}

func classifyGoal(goal *string) goalKind {
	if goal == nil {
		return goalMaintain
	}
	value := strings.ToLower(*goal)
	switch {
	case strings.Contains(value, "lose"), strings.Contains(value, "fat"), strings.Contains(value, "cut"):
		return goalCut
	case strings.Contains(value, "gain"), strings.Contains(value, "muscle"), strings.Contains(value, "bulk"):
		return goalBulk
	default:
		return goalMaintain
	}
}

func mealsFor(kind goalKind) []models.GuidanceItem {
	switch kind {
	case goalCut:
		return []models.GuidanceItem{
			{Title: "Breakfast", Detail: "Egg white omelette with spinach and one slice of wholegrain toast."},
			{Title: "Lunch", Detail: "Grilled chicken salad with olive oil dressing."},
			{Title: "Snack", Detail: "Greek yogurt with berries."},
			{Title: "Dinner", Detail: "White fish, steamed vegetables and a small portion of rice."},
		}
	case goalBulk:
		return []models.GuidanceItem{
			{Title: "Breakfast", Detail: "Oats with whole milk, banana and peanut butter."},
			{Title: "Lunch", Detail: "Beef and rice bowl with avocado."},
			{Title: "Snack", Detail: "Whey shake with oats and a handful of nuts."},
			{Title: "Dinner", Detail: "Salmon, sweet potato and vegetables."},
			{Title: "Before bed", Detail: "Cottage cheese with honey."},
		}
	default:
		return []models.GuidanceItem{
			{Title: "Breakfast", Detail: "Scrambled eggs with wholegrain toast and fruit."},
			{Title: "Lunch", Detail: "Chicken wrap with mixed vegetables."},
			{Title: "Snack", Detail: "Protein bar or a piece of fruit with nuts."},
			{Title: "Dinner", Detail: "Lean mince with pasta and salad."},
		}
	}
}
