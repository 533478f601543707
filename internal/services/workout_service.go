package services

import (
	"strings"

	"github.com/atakamran/liftlegends-sub000/internal/models"
)

var workoutCatalog = []models.WorkoutPlan{
	{
		ID:           "beginner-full-body",
		Title:        "Full Body Foundations",
		Description:  "Three full-body sessions a week built on compound lifts.",
		FitnessLevel: "beginner",
		DaysPerWeek:  3,
		Place:        "gym",
		Days: []models.WorkoutDay{
			{Label: "day-1", Focus: "full body", Exercises: []models.WorkoutExercise{
				{Name: "Goblet Squat", Sets: 3, Reps: "10", RestSeconds: 90},
				{Name: "Push-Up", Sets: 3, Reps: "8-12", RestSeconds: 60},
				{Name: "Seated Cable Row", Sets: 3, Reps: "10", RestSeconds: 60},
				{Name: "Plank", Sets: 3, Reps: "30s", RestSeconds: 45},
			}},
			{Label: "day-2", Focus: "full body", Exercises: []models.WorkoutExercise{
				{Name: "Romanian Deadlift", Sets: 3, Reps: "10", RestSeconds: 90},
				{Name: "Dumbbell Shoulder Press", Sets: 3, Reps: "10", RestSeconds: 60},
				{Name: "Lat Pulldown", Sets: 3, Reps: "10", RestSeconds: 60},
				{Name: "Walking Lunge", Sets: 2, Reps: "12", RestSeconds: 60},
			}},
			{Label: "day-3", Focus: "full body", Exercises: []models.WorkoutExercise{
				{Name: "Leg Press", Sets: 3, Reps: "12", RestSeconds: 90},
				{Name: "Dumbbell Bench Press", Sets: 3, Reps: "10", RestSeconds: 60},
				{Name: "One-Arm Dumbbell Row", Sets: 3, Reps: "10", RestSeconds: 60},
				{Name: "Dead Bug", Sets: 3, Reps: "10", RestSeconds: 45},
			}},
		},
	},
	{
		ID:           "intermediate-upper-lower",
		Title:        "Upper / Lower Split",
		Description:  "Four days alternating upper and lower body with progressive overload.",
		FitnessLevel: "intermediate",
		DaysPerWeek:  4,
		Place:        "gym",
		Days: []models.WorkoutDay{
			{Label: "day-1", Focus: "upper", Exercises: []models.WorkoutExercise{
				{Name: "Bench Press", Sets: 4, Reps: "6-8", RestSeconds: 120},
				{Name: "Barbell Row", Sets: 4, Reps: "8", RestSeconds: 90},
				{Name: "Overhead Press", Sets: 3, Reps: "8", RestSeconds: 90},
				{Name: "Chin-Up", Sets: 3, Reps: "AMRAP", RestSeconds: 90},
			}},
			{Label: "day-2", Focus: "lower", Exercises: []models.WorkoutExercise{
				{Name: "Back Squat", Sets: 4, Reps: "6", RestSeconds: 150},
				{Name: "Romanian Deadlift", Sets: 3, Reps: "8", RestSeconds: 120},
				{Name: "Bulgarian Split Squat", Sets: 3, Reps: "10", RestSeconds: 90},
				{Name: "Standing Calf Raise", Sets: 4, Reps: "12", RestSeconds: 60},
			}},
			{Label: "day-3", Focus: "upper", Exercises: []models.WorkoutExercise{
				{Name: "Incline Dumbbell Press", Sets: 4, Reps: "10", RestSeconds: 90},
				{Name: "Pull-Up", Sets: 4, Reps: "6-8", RestSeconds: 90},
				{Name: "Lateral Raise", Sets: 3, Reps: "15", RestSeconds: 45},
				{Name: "Cable Curl", Sets: 3, Reps: "12", RestSeconds: 45},
			}},
			{Label: "day-4", Focus: "lower", Exercises: []models.WorkoutExercise{
				{Name: "Deadlift", Sets: 3, Reps: "5", RestSeconds: 180},
				{Name: "Front Squat", Sets: 3, Reps: "8", RestSeconds: 120},
				{Name: "Hip Thrust", Sets: 3, Reps: "10", RestSeconds: 90},
				{Name: "Hanging Leg Raise", Sets: 3, Reps: "12", RestSeconds: 60},
			}},
		},
	},
	{
		ID:           "advanced-push-pull-legs",
		Title:        "Push Pull Legs",
		Description:  "Six high-volume sessions a week for experienced lifters.",
		FitnessLevel: "advanced",
		DaysPerWeek:  6,
		Place:        "gym",
		Days: []models.WorkoutDay{
			{Label: "day-1", Focus: "push", Exercises: []models.WorkoutExercise{
				{Name: "Bench Press", Sets: 5, Reps: "5", RestSeconds: 180},
				{Name: "Overhead Press", Sets: 4, Reps: "8", RestSeconds: 120},
				{Name: "Weighted Dip", Sets: 3, Reps: "10", RestSeconds: 90},
				{Name: "Cable Fly", Sets: 3, Reps: "15", RestSeconds: 60},
			}},
			{Label: "day-2", Focus: "pull", Exercises: []models.WorkoutExercise{
				{Name: "Deadlift", Sets: 5, Reps: "3", RestSeconds: 180},
				{Name: "Weighted Pull-Up", Sets: 4, Reps: "6", RestSeconds: 120},
				{Name: "Pendlay Row", Sets: 4, Reps: "8", RestSeconds: 90},
				{Name: "Face Pull", Sets: 3, Reps: "15", RestSeconds: 60},
			}},
			{Label: "day-3", Focus: "legs", Exercises: []models.WorkoutExercise{
				{Name: "Back Squat", Sets: 5, Reps: "5", RestSeconds: 180},
				{Name: "Leg Press", Sets: 4, Reps: "12", RestSeconds: 120},
				{Name: "Lying Leg Curl", Sets: 4, Reps: "12", RestSeconds: 60},
				{Name: "Seated Calf Raise", Sets: 4, Reps: "15", RestSeconds: 45},
			}},
		},
	},
	{
		ID:           "home-bodyweight",
		Title:        "Home Bodyweight Circuit",
		Description:  "No-equipment circuits for training at home.",
		FitnessLevel: "beginner",
		DaysPerWeek:  3,
		Place:        "home",
		Days: []models.WorkoutDay{
			{Label: "day-1", Focus: "circuit", Exercises: []models.WorkoutExercise{
				{Name: "Air Squat", Sets: 4, Reps: "15", RestSeconds: 45},
				{Name: "Push-Up", Sets: 4, Reps: "10", RestSeconds: 45},
				{Name: "Glute Bridge", Sets: 4, Reps: "15", RestSeconds: 45},
				{Name: "Mountain Climber", Sets: 4, Reps: "30s", RestSeconds: 30},
			}},
			{Label: "day-2", Focus: "circuit", Exercises: []models.WorkoutExercise{
				{Name: "Reverse Lunge", Sets: 4, Reps: "12", RestSeconds: 45},
				{Name: "Pike Push-Up", Sets: 3, Reps: "8", RestSeconds: 60},
				{Name: "Superman Hold", Sets: 3, Reps: "20s", RestSeconds: 30},
				{Name: "Burpee", Sets: 3, Reps: "10", RestSeconds: 60},
			}},
		},
	},
}

type WorkoutService struct {
	plans []models.WorkoutPlan
}

func NewWorkoutService() *WorkoutService {
	return &WorkoutService{plans: workoutCatalog}
}

// ListWorkouts returns the catalog, optionally narrowed to one fitness
// level. An unknown level is a validation error rather than an empty list.
func (s *WorkoutService) ListWorkouts(level string) ([]models.WorkoutPlan, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return s.plans, nil
	}
	if err := (models.ProfilePatch{FitnessLevel: &level}).Validate(); err != nil {
		return nil, validationErr(err)
	}

	plans := make([]models.WorkoutPlan, 0, len(s.plans))
	for _, plan := range s.plans {
		if plan.FitnessLevel == level {
			plans = append(plans, plan)
		}
	}
	return plans, nil
}

func (s *WorkoutService) GetWorkout(id string) (*models.WorkoutPlan, error) {
	id = strings.TrimSpace(id)
	for i := range s.plans {
		if s.plans[i].ID == id {
			plan := s.plans[i]
			return &plan, nil
		}
	}
	return nil, ErrNotFound
}

// RecommendedWorkout picks the plan that best fits a profile: same level
// first, then same training place, then the closest weekly frequency.
func (s *WorkoutService) RecommendedWorkout(profile *models.UserProfile) models.WorkoutPlan {
	level := "beginner"
	if profile != nil && profile.FitnessLevel != nil {
		level = *profile.FitnessLevel
	}

	best := s.plans[0]
	bestScore := -1
	for _, plan := range s.plans {
		score := 0
		if plan.FitnessLevel == level {
			score += 100
		}
		if profile != nil && profile.TrainingPlace != nil && strings.EqualFold(plan.Place, *profile.TrainingPlace) {
			score += 10
		}
		if profile != nil && profile.TrainingDays != nil {
			diff := plan.DaysPerWeek - *profile.TrainingDays
			if diff < 0 {
				diff = -diff
			}
			score += 7 - diff
		}
		if score > bestScore {
			best, bestScore = plan, score
		}
	}
	return best
}
