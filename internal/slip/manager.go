package slip

import (
	"log/slog"
	"sync"
)

// SubmitterFactory builds the submission collaborator for one session, so
// accepted wagers can be attributed to the session that placed them.
type SubmitterFactory func(sessionID string) Submitter

// Manager owns the per-session slips. Each session gets an independent Slip
// created on first use; slips are never shared between sessions.
type Manager struct {
	mu    sync.Mutex
	slips map[string]*Slip

	factory SubmitterFactory
	cfg     Config
	logger  *slog.Logger
}

// NewManager creates a Manager that builds slips with the given submitter
// factory and config.
func NewManager(factory SubmitterFactory, cfg Config, logger *slog.Logger) *Manager {
	return &Manager{
		slips:   make(map[string]*Slip),
		factory: factory,
		cfg:     cfg,
		logger:  logger,
	}
}

// Get returns the slip for a session, creating it if needed.
func (m *Manager) Get(sessionID string) *Slip {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.slips[sessionID]
	if !ok {
		s = New(m.factory(sessionID), m.cfg, m.logger)
		m.slips[sessionID] = s
	}
	return s
}

// Remove drops a session's slip.
func (m *Manager) Remove(sessionID string) {
	m.mu.Lock()
	delete(m.slips, sessionID)
	m.mu.Unlock()
}

// Len returns the number of live slips.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slips)
}
