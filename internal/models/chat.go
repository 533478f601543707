package models

import "time"

type AssistantTopic string

const (
	TopicWorkout     AssistantTopic = "workout"
	TopicDiet        AssistantTopic = "diet"
	TopicSupplements AssistantTopic = "supplements"
	TopicMotivation  AssistantTopic = "motivation"
	TopicGeneral     AssistantTopic = "general"
)

type AssistantReply struct {
	Topic     AssistantTopic `json:"topic"`
	Question  string         `json:"question"`
	Answer    string         `json:"answer"`
	CreatedAt time.Time      `json:"created_at"`
}

type GuidanceItem struct {
	Title  string   `json:"title"`
	Detail string   `json:"detail"`
	Items  []string `json:"items,omitempty"`
}
