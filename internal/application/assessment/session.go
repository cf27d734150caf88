package assessment

import (
	"errors"
	"sync"
	"time"

	"github.com/mindtype/insights/internal/domain/qna"
	"github.com/mindtype/insights/internal/domain/reports"
)

// State of one assessment session.
type State string

const (
	StateNotStarted            State = "not_started"
	StateAwaitingFirstQuestion State = "awaiting_first_question"
	StateAwaitingAnswer        State = "awaiting_answer"
	StateFinalizing            State = "finalizing"
	StateCompleted             State = "completed"
	StateFailed                State = "failed"
)

var (
	// ErrSessionNotFound covers unknown ids and sessions owned by another user.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionBusy is returned when a request arrives while a prior gateway
	// call for the same session is still in flight.
	ErrSessionBusy = errors.New("session has a request in flight")

	// ErrSessionFinished is returned for answers submitted to a session that
	// already completed or failed.
	ErrSessionFinished = errors.New("session already finished")
)

// Session owns the in-progress interview state for one user. It is transient:
// abandoned sessions are swept away, never persisted.
type Session struct {
	ID          string
	UserID      string
	Language    string
	Description string

	mu        sync.Mutex
	state     State
	inFlight  bool
	history   []qna.HistoryItem
	step      *qna.Step
	report    *reports.Report
	failure   string
	updatedAt time.Time
}

// View is the caller-facing snapshot of a session.
type View struct {
	ID     string          `json:"session_id"`
	State  State           `json:"state"`
	Turn   int             `json:"turn"`
	Step   *qna.Step       `json:"step,omitempty"`
	Report *reports.Report `json:"report,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// view snapshots the session. Caller must hold s.mu.
func (s *Session) view() View {
	return View{
		ID:     s.ID,
		State:  s.state,
		Turn:   len(s.history),
		Step:   s.step,
		Report: s.report,
		Error:  s.failure,
	}
}

// View returns a consistent snapshot.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Manager is the in-memory session registry with TTL-based sweeping of
// abandoned sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	stop     chan struct{}
	once     sync.Once
}

func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	m := &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go m.sweep()
	return m
}

func (m *Manager) add(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}

func (m *Manager) get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close stops the sweeper.
func (m *Manager) Close() {
	m.once.Do(func() { close(m.stop) })
}

func (m *Manager) sweep() {
	interval := m.ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-m.stop:
			return
		case now := <-t.C:
			m.mu.Lock()
			for id, s := range m.sessions {
				s.mu.Lock()
				expired := now.Sub(s.updatedAt) > m.ttl && !s.inFlight
				s.mu.Unlock()
				if expired {
					delete(m.sessions, id)
				}
			}
			m.mu.Unlock()
		}
	}
}
