package reports

import (
	"fmt"
	"strings"
)

// Type is the four-letter personality classification code.
type Type string

const (
	ISTJ Type = "ISTJ"
	ISFJ Type = "ISFJ"
	INFJ Type = "INFJ"
	INTJ Type = "INTJ"
	ISTP Type = "ISTP"
	ISFP Type = "ISFP"
	INFP Type = "INFP"
	INTP Type = "INTP"
	ESTP Type = "ESTP"
	ESFP Type = "ESFP"
	ENFP Type = "ENFP"
	ENTP Type = "ENTP"
	ESTJ Type = "ESTJ"
	ESFJ Type = "ESFJ"
	ENFJ Type = "ENFJ"
	ENTJ Type = "ENTJ"
)

var allTypes = map[Type]bool{
	ISTJ: true, ISFJ: true, INFJ: true, INTJ: true,
	ISTP: true, ISFP: true, INFP: true, INTP: true,
	ESTP: true, ESFP: true, ENFP: true, ENTP: true,
	ESTJ: true, ESFJ: true, ENFJ: true, ENTJ: true,
}

// ParseType normalizes and validates a four-letter type code.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	if !allTypes[t] {
		return "", fmt.Errorf("invalid personality type code: %q", s)
	}
	return t, nil
}

// Identity is the A/T (Assertive/Turbulent) variant tag.
type Identity string

const (
	IdentityAssertive Identity = "A"
	IdentityTurbulent Identity = "T"
)

// DichotomyPercentages is the confidence breakdown over the four trait axes.
// Paired values must sum to exactly 100.
type DichotomyPercentages struct {
	I int `json:"I"`
	E int `json:"E"`
	N int `json:"N"`
	S int `json:"S"`
	T int `json:"T"`
	F int `json:"F"`
	J int `json:"J"`
	P int `json:"P"`
}

// Valid reports whether I+E, N+S, T+F and J+P each sum to 100.
func (d DichotomyPercentages) Valid() bool {
	return d.I+d.E == 100 && d.N+d.S == 100 && d.T+d.F == 100 && d.J+d.P == 100
}

// SupportedLanguages are the ISO 639-1 codes the assessment can run in.
var SupportedLanguages = map[string]string{
	"en": "English",
	"id": "Bahasa Indonesia",
	"es": "Español",
	"fr": "Français",
	"de": "Deutsch",
	"ja": "日本語",
	"ko": "한국어",
	"zh": "中文",
	"ar": "العربية",
	"pt": "Português",
	"ru": "Русский",
	"hi": "हिन्दी",
	"it": "Italiano",
	"nl": "Nederlands",
	"sv": "Svenska",
	"tr": "Türkçe",
	"vi": "Tiếng Việt",
}

// SupportedLanguage reports whether code is in the supported set.
func SupportedLanguage(code string) bool {
	_, ok := SupportedLanguages[code]
	return ok
}

// Report is one completed personality analysis.
// JSON field names match the wire schema the model is asked to produce, so a
// stored report round-trips without loss.
type Report struct {
	MBTIType                     Type                  `json:"mbtiType"`
	Identity                     Identity              `json:"identity,omitempty"`
	Dichotomies                  *DichotomyPercentages `json:"dichotomyPercentages,omitempty"`
	PersonalitySummary           string                `json:"personalitySummary,omitempty"`
	MBTIExplanation              string                `json:"mbtiExplanation,omitempty"`
	CareerSuggestions            []string              `json:"careerSuggestions,omitempty"`
	OrganizationalRoles          []string              `json:"organizationalRoles,omitempty"`
	EducationalAdvice            string                `json:"educationalAdvice,omitempty"`
	DailyLifeTips                string                `json:"dailyLifeTips,omitempty"`
	HawkinsInsight               string                `json:"hawkinsInsight,omitempty"`
	ConsciousnessLevelPrediction string                `json:"consciousnessLevelPrediction,omitempty"`
	NewAgeConcept                string                `json:"newAgeConcept,omitempty"`
	DetailedNewAgeSuggestions    []string              `json:"detailedNewAgeSuggestions,omitempty"`
	DetailedMBTIExploration      string                `json:"detailedMbtiExploration,omitempty"`
	DevelopmentStrategies        string                `json:"developmentStrategies,omitempty"`
	Language                     string                `json:"language,omitempty"`
	Timestamp                    string                `json:"timestamp,omitempty"` // RFC 3339
}

// Validate checks the invariants a well-formed report must satisfy.
func (r *Report) Validate() error {
	if _, err := ParseType(string(r.MBTIType)); err != nil {
		return err
	}
	if r.MBTIExplanation == "" && r.PersonalitySummary == "" {
		return fmt.Errorf("report is missing both explanation and summary")
	}
	if r.Language == "" {
		return fmt.Errorf("report is missing the language tag")
	}
	if r.Dichotomies != nil && !r.Dichotomies.Valid() {
		return fmt.Errorf("dichotomy percentages do not pair-sum to 100")
	}
	return nil
}
