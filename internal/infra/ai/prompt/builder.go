package prompt

import (
	"fmt"
	"strings"

	"github.com/mindtype/insights/internal/domain/qna"
	"github.com/mindtype/insights/internal/domain/reports"
)

// Mode selects which instruction the builder renders. One builder, one mode
// parameter; the per-call prompt variants are not allowed to drift apart.
type Mode string

const (
	ModeDescription Mode = "description"
	ModeQnAStart    Mode = "qnaStart"
	ModeQnAContinue Mode = "qnaContinue"
	ModeQnAFinal    Mode = "qnaFinal"
	ModeExploration Mode = "exploration"
	ModeStrategies  Mode = "strategies"
)

// SoftLimitBias is the wrap-up instruction appended once a session passes the
// soft turn limit. Advisory only; the model may still continue.
const SoftLimitBias = `You have already asked many questions. Unless a critical trait is still unclear, prefer to set "isFinal" to true now.`

const notProvided = "Not provided"

// Request carries the structured inputs for one instruction.
type Request struct {
	Mode        Mode
	Language    string
	Description string
	History     []qna.HistoryItem

	// EncourageFinish adds the soft-limit bias to a qnaContinue instruction.
	EncourageFinish bool

	// Report is the stored profile for exploration/strategies instructions.
	Report *reports.Report
}

// TemperatureFor returns the sampling temperature used for a mode.
func TemperatureFor(m Mode) float32 {
	switch m {
	case ModeQnAStart, ModeQnAContinue:
		return 0.65
	case ModeStrategies:
		return 0.75
	default:
		return 0.7
	}
}

// Build deterministically renders the instruction payload for a request.
// Pure string construction; empty inputs produce a valid generic instruction.
func Build(req Request) string {
	switch req.Mode {
	case ModeDescription:
		return buildDescription(req)
	case ModeQnAStart:
		return buildQnAStart(req)
	case ModeQnAContinue:
		return buildQnAContinue(req)
	case ModeQnAFinal:
		return buildQnAFinal(req)
	case ModeExploration:
		return buildExploration(req)
	case ModeStrategies:
		return buildStrategies(req)
	default:
		return buildDescription(req)
	}
}

const analystRole = `You are an expert MBTI analyst, career counselor, and personal development coach with deep knowledge of the "A/T" (Assertive/Turbulent) identity model and David Hawkins' Map of Consciousness.`

const coreGoal = `Your goal is to deeply understand the user to determine their:
1. MBTI type (I/E, N/S, T/F, J/P).
2. MBTI identity (Assertive/Turbulent - A/T) by asking about confidence, stress response, and perfectionism.
3. Level of Consciousness (Hawkins' map) by asking about worldview, core motivations, and emotional patterns.
Questions must be engaging, multiple-choice (3-4 options), and adapt to previous answers.`

const stepSchema = `Response MUST be only JSON: {"question": "...", "choices": ["...", "..."], "isFinal": false}. No text outside the JSON object. No markdown.`

func reportSchema(lang string) string {
	return fmt.Sprintf(`Format the response strictly as a single JSON object with keys:
- "mbtiType": string (e.g., "INTJ", "ESFP")
- "identity": string ("A" for Assertive or "T" for Turbulent)
- "dichotomyPercentages": object with keys "I", "E", "N", "S", "T", "F", "J", "P" and integer values 0-100, where I+E=100, N+S=100, T+F=100, J+P=100
- "personalitySummary": string (1-2 sentences)
- "mbtiExplanation": string (2-3 sentences explaining the type and A/T identity)
- "careerSuggestions": array of strings (3-5 detailed suggestions)
- "organizationalRoles": array of strings (2-3 detailed suggestions)
- "educationalAdvice": string
- "dailyLifeTips": string
- "hawkinsInsight": string (a detailed Map of Consciousness insight linked to described behaviors)
- "consciousnessLevelPrediction": string (e.g., "Operates at Reason (400), exploring Love (500). Justification: ...")
- "newAgeConcept": string (primary growth concept)
- "detailedNewAgeSuggestions": array of strings (2-3 actionable tips)
- "language": string (MUST be %q)

The entire response must be a single valid JSON object. No markdown, no code fences.`, lang)
}

func descriptionOr(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return s
}

func historyTranscript(history []qna.HistoryItem) string {
	var b strings.Builder
	for i, item := range history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Q: %s\nA: %s", item.Question, item.Answer)
	}
	return b.String()
}

func buildDescription(req Request) string {
	return fmt.Sprintf(`%s
Respond in %s. If the user's input is clearly in a different language, prioritize responding in the language of their input.
Based on the following self-description, provide a comprehensive analysis. Look for clues about confidence, stress handling, and perfectionism to determine the A/T identity. Estimate the percentage breakdown for each MBTI dichotomy from the user's text. Interpret abbreviations, slang, and common typos before analyzing.

User's self-description:
%q

%s`, analystRole, req.Language, descriptionOr(req.Description), reportSchema(req.Language))
}

func buildQnAStart(req Request) string {
	if strings.TrimSpace(req.Description) != "" {
		return fmt.Sprintf(`You are an AI assistant for a deep personality assessment.
Generate all questions and interactions in %s.
The user has provided an initial self-description: %q
%s
Based on their initial description, formulate the first insightful multiple-choice question.
%s`, req.Language, req.Description, coreGoal, stepSchema)
	}
	return fmt.Sprintf(`You are an AI assistant for a deep personality assessment.
Generate all questions and interactions in %s.
%s
Start with an engaging first question to begin the assessment.
%s`, req.Language, coreGoal, stepSchema)
}

func buildQnAContinue(req Request) string {
	var last qna.HistoryItem
	if n := len(req.History); n > 0 {
		last = req.History[n-1]
	}
	var b strings.Builder
	fmt.Fprintf(&b, `You are an AI for a deep personality assessment.
Generate all questions and interactions in %s.
%s
Initial Description (if any): %q
Conversation History (in %s):
%s

User just answered %q to question %q.
Formulate the next relevant multiple-choice question in %s.
If you have sufficient information for a full, detailed analysis on all points (MBTI, A/T, consciousness level), set "isFinal" to true and omit "question" and "choices". Otherwise, provide the next question.
`, req.Language, coreGoal, descriptionOr(req.Description), req.Language,
		historyTranscript(req.History), last.Answer, last.Question, req.Language)
	if req.EncourageFinish {
		b.WriteString(SoftLimitBias)
		b.WriteString("\n")
	}
	b.WriteString(`Response MUST be only JSON: {"question": "...", "choices": ["...", "..."], "isFinal": boolean} or {"isFinal": true}. No text outside the JSON object. No markdown.`)
	return b.String()
}

func buildQnAFinal(req Request) string {
	return fmt.Sprintf(`%s
Generate the entire analysis and all text fields in %s.
The user has completed a Q&A session.
User's initial self-description (if provided): %q

Q&A History (conducted in %s):
%s

Based on the initial description (if provided) and the entire Q&A history, provide a comprehensive analysis. Determine the A/T identity from answers about stress and confidence. Calculate the percentage breakdown for each MBTI dichotomy. Provide a detailed, justified consciousness-level analysis and personalize the growth tips to it.

%s`, analystRole, req.Language, descriptionOr(req.Description), req.Language,
		historyTranscript(req.History), reportSchema(req.Language))
}

func buildExploration(req Request) string {
	mbti, summary := "", ""
	if req.Report != nil {
		mbti = string(req.Report.MBTIType)
		summary = req.Report.PersonalitySummary
	}
	return fmt.Sprintf(`You are an expert MBTI analyst.
The user has been identified as %s and has a summary: %q.
Provide a detailed exploration of the %s personality type in %s.
Include: core characteristics and motivations; cognitive functions and how they manifest; strengths in detail; challenges and areas for growth; typical relationship patterns; behavior under stress; suggestions for leveraging strengths.
Format the output as a single string of well-structured text in %s. Simple Markdown is allowed (## headings, lists, emphasis).
Do not output JSON. Just the detailed text content, at least 300-500 words.`,
		mbti, descriptionOr(summary), mbti, req.Language, req.Language)
}

func buildStrategies(req Request) string {
	r := req.Report
	if r == nil {
		r = &reports.Report{}
	}
	profile := fmt.Sprintf("- MBTI Type: %s-%s\n- Personality Summary: %s\n- Career Suggestions: %s\n- Organizational Roles: %s\n- Educational Advice: %s\n- Daily Life Tips: %s\n- Hawkins Insight: %s\n- Consciousness Level Prediction: %s\n- New Age Concept: %s",
		r.MBTIType, r.Identity,
		descriptionOr(r.PersonalitySummary),
		descriptionOr(strings.Join(r.CareerSuggestions, ", ")),
		descriptionOr(strings.Join(r.OrganizationalRoles, ", ")),
		descriptionOr(r.EducationalAdvice),
		descriptionOr(r.DailyLifeTips),
		descriptionOr(r.HawkinsInsight),
		descriptionOr(r.ConsciousnessLevelPrediction),
		descriptionOr(r.NewAgeConcept))
	if r.Dichotomies != nil {
		d := r.Dichotomies
		profile += fmt.Sprintf("\n- Dichotomy Percentages: I/E: %d/%d, N/S: %d/%d, T/F: %d/%d, J/P: %d/%d",
			d.I, d.E, d.N, d.S, d.T, d.F, d.J, d.P)
	}
	return fmt.Sprintf(`You are a personal development coach specializing in MBTI and holistic growth.
The user has the following personality profile:
%s

Based on this profile, provide highly personalized and actionable development strategies in %s.
Focus on: leveraging their core strengths considering the %s identity variant; addressing blind spots common for that variant; practical exercises tied to their consciousness-level insight; deepening their suggested growth concept; developing untapped potential by balancing their dichotomies.
The strategies should be empathetic and encouraging, with clear steps, all in %s.
Format the output as a single string of well-structured text. Simple Markdown is allowed.
Do not output JSON. Just the detailed text content, at least 300-500 words.`,
		profile, req.Language, orDash(string(r.Identity)), req.Language)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
