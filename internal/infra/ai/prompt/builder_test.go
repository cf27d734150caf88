package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mindtype/insights/internal/domain/qna"
	"github.com/mindtype/insights/internal/domain/reports"
)

func TestBuildIsDeterministic(t *testing.T) {
	req := Request{
		Mode:        ModeQnAContinue,
		Language:    "en",
		Description: "I like quiet evenings",
		History: []qna.HistoryItem{
			{Question: "How do you recharge after a long day?", Answer: "Alone time"},
		},
	}
	assert.Equal(t, Build(req), Build(req))
}

func TestBuildDescriptionUsesPlaceholder(t *testing.T) {
	out := Build(Request{Mode: ModeDescription, Language: "en", Description: "   "})
	assert.Contains(t, out, "Not provided")

	out = Build(Request{Mode: ModeDescription, Language: "en", Description: "I plan everything"})
	assert.Contains(t, out, "I plan everything")
	assert.NotContains(t, out, "Not provided")
}

func TestBuildDescriptionEmbedsLanguageAndSchema(t *testing.T) {
	out := Build(Request{Mode: ModeDescription, Language: "fr", Description: "x"})
	assert.Contains(t, out, "Respond in fr")
	assert.Contains(t, out, `"mbtiType"`)
	assert.Contains(t, out, `"dichotomyPercentages"`)
	assert.Contains(t, out, `MUST be "fr"`)
}

func TestBuildQnAStartVariants(t *testing.T) {
	withDesc := Build(Request{Mode: ModeQnAStart, Language: "en", Description: "I overthink"})
	assert.Contains(t, withDesc, "I overthink")
	assert.Contains(t, withDesc, "first insightful multiple-choice question")

	blank := Build(Request{Mode: ModeQnAStart, Language: "en"})
	assert.Contains(t, blank, "engaging first question")
	assert.Contains(t, blank, `"isFinal"`)
}

func TestBuildQnAContinueSoftLimitBias(t *testing.T) {
	history := []qna.HistoryItem{
		{Question: "How do you recharge after a long day?", Answer: "Alone time"},
	}
	req := Request{Mode: ModeQnAContinue, Language: "en", History: history}

	assert.NotContains(t, Build(req), SoftLimitBias)

	req.EncourageFinish = true
	assert.Contains(t, Build(req), SoftLimitBias)
}

func TestBuildQnAContinueQuotesLastTurn(t *testing.T) {
	out := Build(Request{
		Mode:     ModeQnAContinue,
		Language: "en",
		History: []qna.HistoryItem{
			{Question: "first?", Answer: "one"},
			{Question: "second?", Answer: "two"},
		},
	})
	assert.Contains(t, out, `answered "two" to question "second?"`)
	assert.Contains(t, out, "Q: first?\nA: one")
}

func TestBuildQnAFinalIncludesFullTranscript(t *testing.T) {
	out := Build(Request{
		Mode:     ModeQnAFinal,
		Language: "de",
		History: []qna.HistoryItem{
			{Question: "q1", Answer: "a1"},
			{Question: "q2", Answer: "a2"},
		},
	})
	assert.Contains(t, out, "Q: q1\nA: a1")
	assert.Contains(t, out, "Q: q2\nA: a2")
	assert.Contains(t, out, `MUST be "de"`)
}

func TestBuildStrategiesRendersProfile(t *testing.T) {
	out := Build(Request{
		Mode:     ModeStrategies,
		Language: "en",
		Report: &reports.Report{
			MBTIType:           reports.INFJ,
			Identity:           reports.IdentityTurbulent,
			PersonalitySummary: "quiet idealist",
			Dichotomies:        &reports.DichotomyPercentages{I: 70, E: 30, N: 80, S: 20, T: 35, F: 65, J: 75, P: 25},
		},
	})
	assert.Contains(t, out, "INFJ-T")
	assert.Contains(t, out, "I/E: 70/30")
	assert.False(t, strings.Contains(out, "%!"), "unfilled format verb in output")
}

func TestTemperatureFor(t *testing.T) {
	assert.InDelta(t, 0.65, TemperatureFor(ModeQnAStart), 0.001)
	assert.InDelta(t, 0.65, TemperatureFor(ModeQnAContinue), 0.001)
	assert.InDelta(t, 0.75, TemperatureFor(ModeStrategies), 0.001)
	assert.InDelta(t, 0.7, TemperatureFor(ModeDescription), 0.001)
	assert.InDelta(t, 0.7, TemperatureFor(ModeQnAFinal), 0.001)
	assert.InDelta(t, 0.7, TemperatureFor(ModeExploration), 0.001)
}
