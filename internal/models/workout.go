package models

type WorkoutExercise struct {
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        string `json:"reps"`
	RestSeconds int    `json:"rest_seconds"`
}

type WorkoutDay struct {
	Label     string            `json:"label"`
	Focus     string            `json:"focus"`
	Exercises []WorkoutExercise `json:"exercises"`
}

type WorkoutPlan struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	FitnessLevel string       `json:"fitness_level"`
	DaysPerWeek  int          `json:"days_per_week"`
	Place        string       `json:"place"`
	Days         []WorkoutDay `json:"days"`
}
