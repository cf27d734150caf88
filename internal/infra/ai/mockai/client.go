package mockai

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"

	domai "github.com/mindtype/insights/internal/domain/ai"
)

// Client is a deterministic stand-in for the completion service, used for
// local development (ai.provider: mock) and in tests. It inspects the
// instruction to decide which canned shape to return.
type Client struct {
	steps atomic.Int64

	// FinalAfter is how many questions are produced before the mock signals
	// a terminal step. Zero means never terminal (hard limit applies).
	FinalAfter int64
}

func New(finalAfter int64) *Client {
	return &Client{FinalAfter: finalAfter}
}

var questions = []string{
	"How do you recharge after a long day?",
	"When plans change at the last minute, what is your first reaction?",
	"In a group project, which role do you naturally take?",
	"What matters more when making a hard decision?",
	"How do you usually respond to criticism of your work?",
}

var choices = [][]string{
	{"Alone time", "With close friends", "A structured routine", "Physical activity"},
	{"Excitement", "Mild annoyance", "I replan immediately", "I go with the flow"},
	{"Organizer", "Idea generator", "Mediator", "Finisher"},
	{"Logical consistency", "Impact on people", "Past experience", "Gut feeling"},
	{"Defend my choices", "Look for the lesson", "Feel it deeply, then adjust", "Ask for specifics"},
}

func (c *Client) Generate(_ context.Context, instruction string, mode domai.Mode, _ float32) (string, error) {
	if mode == domai.ModeText {
		return "## Overview\n\nA grounded, reflective profile. Strengths: depth, consistency, care for others. Growth areas: delegation and tolerating ambiguity.", nil
	}
	if strings.Contains(instruction, `"mbtiType"`) {
		return cannedReport(), nil
	}
	n := c.steps.Add(1)
	if c.FinalAfter > 0 && n > c.FinalAfter {
		return `{"isFinal": true}`, nil
	}
	i := int((n - 1) % int64(len(questions)))
	step := map[string]any{
		"question": questions[i],
		"choices":  choices[i],
		"isFinal":  false,
	}
	b, _ := json.Marshal(step)
	return string(b), nil
}

func cannedReport() string {
	report := map[string]any{
		"mbtiType": "INFJ",
		"identity": "T",
		"dichotomyPercentages": map[string]int{
			"I": 70, "E": 30, "N": 80, "S": 20, "T": 35, "F": 65, "J": 75, "P": 25,
		},
		"personalitySummary":           "A quiet idealist who reads rooms quickly and plans ahead.",
		"mbtiExplanation":              "Strong preference for reflection and meaning-making, with a turbulent identity that fuels self-improvement.",
		"careerSuggestions":            []string{"Counselor", "UX researcher", "Technical writer"},
		"organizationalRoles":          []string{"Mentor", "Quality advocate"},
		"educationalAdvice":            "Pick depth over breadth; long-form study suits you.",
		"dailyLifeTips":                "Schedule genuine alone time to recover energy.",
		"hawkinsInsight":               "Operates mostly from Acceptance, with occasional dips into Fear under deadline pressure.",
		"consciousnessLevelPrediction": "Operates at Acceptance (350), exploring Reason (400). Justification: reflective, principled answers.",
		"newAgeConcept":                "Mindful intention setting",
		"detailedNewAgeSuggestions":    []string{"Morning journaling", "Weekly digital sabbath"},
		"language":                     "en",
	}
	b, _ := json.Marshal(report)
	return string(b)
}
