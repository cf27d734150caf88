package reports

import (
	"context"
	"fmt"

	"github.com/mindtype/insights/internal/application"
	appai "github.com/mindtype/insights/internal/application/ai"
	domai "github.com/mindtype/insights/internal/domain/ai"
	domain "github.com/mindtype/insights/internal/domain/reports"
	"github.com/mindtype/insights/internal/infra/ai/prompt"
)

// Section names a long-form report section that can be generated after the
// report is created.
type Section string

const (
	SectionExploration Section = "exploration"
	SectionStrategies  Section = "strategies"
)

// Service implements use-cases around stored report history.
type Service struct {
	Repo      domain.Repository
	Gateway   *appai.Gateway
	Artifacts domain.ArtifactStore
	Clock     application.Clock
}

// List returns the user's report history, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]*domain.Report, error) {
	return s.Repo.List(ctx, userID)
}

// Clear removes the user's report history (logout policy).
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.Repo.Clear(ctx, userID)
}

func (s *Service) find(ctx context.Context, userID, timestamp, language string) (*domain.Report, error) {
	list, err := s.Repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, r := range list {
		if r.Timestamp == timestamp && (language == "" || r.Language == language) {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

// EnrichSection generates a long-form section for a stored report and upserts
// the updated report in place.
func (s *Service) EnrichSection(ctx context.Context, userID, timestamp, language string, section Section) (*domain.Report, error) {
	rep, err := s.find(ctx, userID, timestamp, language)
	if err != nil {
		return nil, err
	}

	var mode prompt.Mode
	switch section {
	case SectionExploration:
		mode = prompt.ModeExploration
	case SectionStrategies:
		mode = prompt.ModeStrategies
	default:
		return nil, fmt.Errorf("unknown report section: %q", section)
	}

	instruction := prompt.Build(prompt.Request{
		Mode:     mode,
		Language: rep.Language,
		Report:   rep,
	})
	text, err := s.Gateway.FreeText(ctx, instruction, prompt.TemperatureFor(mode))
	if err != nil {
		return nil, err
	}

	switch section {
	case SectionExploration:
		rep.DetailedMBTIExploration = text
	case SectionStrategies:
		rep.DevelopmentStrategies = text
	}
	if err := s.Repo.Update(ctx, userID, rep.Timestamp, rep.Language, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// Export renders a stored report as Markdown and uploads it to the artifact
// store, returning the artifact URL.
func (s *Service) Export(ctx context.Context, userID, timestamp, language string) (string, error) {
	if s.Artifacts == nil {
		return "", fmt.Errorf("%w: artifact store not configured", domai.ErrConfigurationMissing)
	}
	rep, err := s.find(ctx, userID, timestamp, language)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s/%s-%s.md", userID, rep.Timestamp, rep.Language)
	return s.Artifacts.Put(ctx, key, "text/markdown", renderMarkdown(rep))
}
