package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atakamran/liftlegends-sub000/internal/backend"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/session"
)

const maxQuestionLength = 1000

// Order matters: "creatine" contains "eat".
var topicKeywords = []struct {
	topic    models.AssistantTopic
	keywords []string
}{
	{models.TopicWorkout, []string{"workout", "exercise", "train", "squat", "bench", "deadlift", "routine", "sets", "reps"}},
	{models.TopicSupplements, []string{"supplement", "creatine", "whey", "vitamin", "caffeine"}},
	{models.TopicDiet, []string{"diet", "eat", "food", "meal", "calorie", "protein", "carb"}},
	{models.TopicMotivation, []string{"motivat", "tired", "lazy", "give up", "quit", "stuck"}},
}

// AssistantService answers coaching questions from a fixed set of replies,
// personalized with the caller's profile.
type AssistantService struct {
	now func() time.Time
}

func NewAssistantService() *AssistantService {
	return &AssistantService{now: time.Now}
}

func (s *AssistantService) Ask(ctx context.Context, sess *session.Session, question string) (*models.AssistantReply, error) {
	if !sess.Valid() {
		return nil, ErrNotAuthenticated
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, validationErr(&models.ValidationError{Fields: models.Violations{"message": "is required"}})
	}
	if utf8.RuneCountInString(question) > maxQuestionLength {
		return nil, validationErr(&models.ValidationError{Fields: models.Violations{
			"message": fmt.Sprintf("must be at most %d characters", maxQuestionLength),
		}})
	}

	profile, err := sess.Backend.GetProfile(ctx, sess.UserID())
	if err != nil && !errors.Is(err, backend.ErrNotFound) {
		return nil, readErr(err)
	}

	topic := ClassifyQuestion(question)
	return &models.AssistantReply{
		Topic:     topic,
		Question:  question,
		Answer:    answer(topic, profile),
		CreatedAt: s.now().UTC(),
	}, nil
}

// ClassifyQuestion picks the first topic whose keywords appear in q.
func ClassifyQuestion(q string) models.AssistantTopic {
	lower := strings.ToLower(q)
	for _, entry := range topicKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.topic
			}
		}
	}
	return models.TopicGeneral
}

func answer(topic models.AssistantTopic, profile *models.UserProfile) string {
	name := "there"
	goal := "your goal"
	if profile != nil {
		if profile.Name != nil && strings.TrimSpace(*profile.Name) != "" {
			name = strings.TrimSpace(*profile.Name)
		}
		if profile.Goal != nil && strings.TrimSpace(*profile.Goal) != "" {
			goal = strings.TrimSpace(*profile.Goal)
		}
	}

	switch topic {
	case models.TopicWorkout:
		days := "three"
		if profile != nil && profile.TrainingDays != nil {
			days = fmt.Sprintf("%d", *profile.TrainingDays)
		}
		return fmt.Sprintf("Hi %s! For %s, stick to %s sessions a week built around compound lifts and add a little weight or a rep each week.", name, goal, days)
	case models.TopicDiet:
		return fmt.Sprintf("Hi %s! Nutrition drives %s. Hit your protein target every day, then adjust calories by watching your weekly average weight.", name, goal)
	case models.TopicSupplements:
		return fmt.Sprintf("Hi %s! Supplements are the last few percent. Creatine, protein powder when food falls short and vitamin D cover most needs.", name)
	case models.TopicMotivation:
		return fmt.Sprintf("Hi %s! Motivation comes and goes, habits stay. Show up for a short session today and keep %s in view.", name, goal)
	default:
		return fmt.Sprintf("Hi %s! Ask me about workouts, diet, supplements or staying motivated and I'll help you work towards %s.", name, goal)
	}
}
