package assessment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mindtype/insights/internal/application"
	appai "github.com/mindtype/insights/internal/application/ai"
	"github.com/mindtype/insights/internal/domain/qna"
	"github.com/mindtype/insights/internal/domain/reports"
	"github.com/mindtype/insights/internal/infra/ai/prompt"
)

const (
	// DefaultSoftLimit is the turn count after which the model is nudged to
	// wrap up. Advisory only.
	DefaultSoftLimit = 25
	// DefaultHardLimit forces final analysis from the accumulated history,
	// the fail-safe against unbounded sessions.
	DefaultHardLimit = 35
)

// Service implements the assessment use-cases: one-shot description analysis
// and the adaptive Q&A session flow.
type Service struct {
	Gateway  *appai.Gateway
	Sessions *Manager
	Repo     reports.Repository
	Clock    application.Clock

	SoftLimit int
	HardLimit int
}

func (s *Service) limits() (soft, hard int) {
	soft, hard = s.SoftLimit, s.HardLimit
	if soft <= 0 {
		soft = DefaultSoftLimit
	}
	if hard <= 0 {
		hard = DefaultHardLimit
	}
	return soft, hard
}

// AnalyzeDescription runs the narrative-analysis flow and persists the report.
func (s *Service) AnalyzeDescription(ctx context.Context, userID, description, language string) (*reports.Report, error) {
	instruction := prompt.Build(prompt.Request{
		Mode:        prompt.ModeDescription,
		Language:    language,
		Description: description,
	})
	rep, err := s.Gateway.FullReport(ctx, instruction, language, prompt.TemperatureFor(prompt.ModeDescription))
	if err != nil {
		return nil, err
	}
	rep.Timestamp = s.Clock.Now().UTC().Format(time.RFC3339Nano)
	if err := s.Repo.Append(ctx, userID, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// StartSession opens a session and fetches the first question. The session is
// registered before the gateway call so it is observable while in flight.
func (s *Service) StartSession(ctx context.Context, userID, language, description string) (View, error) {
	sess := &Session{
		ID:          uuid.New().String(),
		UserID:      userID,
		Language:    language,
		Description: description,
		state:       StateAwaitingFirstQuestion,
		inFlight:    true,
		updatedAt:   s.Clock.Now(),
	}
	s.Sessions.add(sess)

	instruction := prompt.Build(prompt.Request{
		Mode:        prompt.ModeQnAStart,
		Language:    language,
		Description: description,
	})
	step, err := s.Gateway.NextStep(ctx, instruction, prompt.TemperatureFor(prompt.ModeQnAStart))
	if err != nil {
		return s.fail(sess, err), err
	}
	if step.IsFinal {
		// Degenerate but possible: finalize straight from the empty history.
		return s.finalize(ctx, sess, nil)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.state = StateAwaitingAnswer
	sess.step = step
	sess.inFlight = false
	sess.updatedAt = s.Clock.Now()
	return sess.view(), nil
}

// GetSession returns a snapshot of a session owned by userID.
func (s *Service) GetSession(userID, sessionID string) (View, error) {
	sess, err := s.sessionFor(userID, sessionID)
	if err != nil {
		return View{}, err
	}
	return sess.View(), nil
}

// SubmitAnswer appends the answered turn and advances the state machine:
// next question, model-signaled termination, or the hard-limit fail-safe.
func (s *Service) SubmitAnswer(ctx context.Context, userID, sessionID, answer string) (View, error) {
	sess, err := s.sessionFor(userID, sessionID)
	if err != nil {
		return View{}, err
	}
	soft, hard := s.limits()

	sess.mu.Lock()
	if sess.inFlight {
		sess.mu.Unlock()
		return View{}, ErrSessionBusy
	}
	switch sess.state {
	case StateAwaitingAnswer:
	case StateCompleted, StateFailed:
		sess.mu.Unlock()
		return View{}, ErrSessionFinished
	default:
		sess.mu.Unlock()
		return View{}, ErrSessionBusy
	}
	// The answered turn joins the history before the next request goes out.
	sess.history = append(sess.history, qna.HistoryItem{
		Question: sess.step.Question,
		Answer:   answer,
		Choices:  sess.step.Choices,
	})
	turns := len(sess.history)
	history := make([]qna.HistoryItem, turns)
	copy(history, sess.history)
	sess.inFlight = true
	sess.updatedAt = s.Clock.Now()
	sess.mu.Unlock()

	if turns >= hard {
		return s.finalize(ctx, sess, history)
	}

	instruction := prompt.Build(prompt.Request{
		Mode:            prompt.ModeQnAContinue,
		Language:        sess.Language,
		Description:     sess.Description,
		History:         history,
		EncourageFinish: turns >= soft,
	})
	step, err := s.Gateway.NextStep(ctx, instruction, prompt.TemperatureFor(prompt.ModeQnAContinue))
	if err != nil {
		return s.fail(sess, err), err
	}
	if step.IsFinal {
		return s.finalize(ctx, sess, history)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.step = step
	sess.inFlight = false
	sess.updatedAt = s.Clock.Now()
	return sess.view(), nil
}

// finalize requests the full report from the accumulated history and persists
// it. Any failure abandons the session; nothing partial is stored.
func (s *Service) finalize(ctx context.Context, sess *Session, history []qna.HistoryItem) (View, error) {
	sess.mu.Lock()
	sess.state = StateFinalizing
	sess.step = nil
	sess.updatedAt = s.Clock.Now()
	sess.mu.Unlock()

	instruction := prompt.Build(prompt.Request{
		Mode:        prompt.ModeQnAFinal,
		Language:    sess.Language,
		Description: sess.Description,
		History:     history,
	})
	rep, err := s.Gateway.FullReport(ctx, instruction, sess.Language, prompt.TemperatureFor(prompt.ModeQnAFinal))
	if err != nil {
		return s.fail(sess, err), err
	}
	rep.Timestamp = s.Clock.Now().UTC().Format(time.RFC3339Nano)
	if err := s.Repo.Append(ctx, sess.UserID, rep); err != nil {
		return s.fail(sess, err), err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.state = StateCompleted
	sess.report = rep
	sess.inFlight = false
	sess.updatedAt = s.Clock.Now()
	return sess.view(), nil
}

func (s *Service) fail(sess *Session, err error) View {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.state = StateFailed
	sess.failure = err.Error()
	sess.step = nil
	sess.inFlight = false
	sess.updatedAt = s.Clock.Now()
	return sess.view()
}

func (s *Service) sessionFor(userID, sessionID string) (*Session, error) {
	sess, ok := s.Sessions.get(sessionID)
	if !ok || sess.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}
