package reports

import (
	"fmt"
	"strings"

	domain "github.com/mindtype/insights/internal/domain/reports"
)

// renderMarkdown produces the exported document for one report.
func renderMarkdown(r *domain.Report) []byte {
	var b strings.Builder

	title := string(r.MBTIType)
	if r.Identity != "" {
		title += "-" + string(r.Identity)
	}
	fmt.Fprintf(&b, "# Personality Report: %s\n\n", title)
	if r.Timestamp != "" {
		fmt.Fprintf(&b, "_Generated: %s · Language: %s_\n\n", r.Timestamp, r.Language)
	}

	writeText := func(heading, text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", heading, text)
	}
	writeList := func(heading string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "## %s\n\n", heading)
		for _, item := range items {
			fmt.Fprintf(&b, "- %s\n", item)
		}
		b.WriteString("\n")
	}

	writeText("Summary", r.PersonalitySummary)
	writeText("Explanation", r.MBTIExplanation)

	if d := r.Dichotomies; d != nil {
		b.WriteString("## Dichotomy Breakdown\n\n")
		fmt.Fprintf(&b, "| I / E | N / S | T / F | J / P |\n|---|---|---|---|\n| %d / %d | %d / %d | %d / %d | %d / %d |\n\n",
			d.I, d.E, d.N, d.S, d.T, d.F, d.J, d.P)
	}

	writeList("Career Suggestions", r.CareerSuggestions)
	writeList("Organizational Roles", r.OrganizationalRoles)
	writeText("Educational Advice", r.EducationalAdvice)
	writeText("Daily Life Tips", r.DailyLifeTips)
	writeText("Consciousness Insight", r.HawkinsInsight)
	writeText("Consciousness Level", r.ConsciousnessLevelPrediction)
	writeText("Growth Concept", r.NewAgeConcept)
	writeList("Personalized Practices", r.DetailedNewAgeSuggestions)
	writeText("Deep Dive", r.DetailedMBTIExploration)
	writeText("Development Strategies", r.DevelopmentStrategies)

	return []byte(b.String())
}
