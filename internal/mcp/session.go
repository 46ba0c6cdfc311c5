package mcp

import (
	"fmt"
	"sync"
	"time"

	"safenlt/internal/launch"
)

// SessionState tracks the lifecycle of a network operation.
type SessionState string

const (
	StateRunning SessionState = "running"
	StateDone    SessionState = "done"
	StateError   SessionState = "error"
)

// Session holds one launch or join sequence driven by MCP tool calls.
// The sequence runs in its own goroutine so tool calls return immediately;
// once started it runs to completion, since launched vaults are never
// tracked or stopped.
type Session struct {
	ID        string
	Kind      string // "launch" or "join"
	VaultsDir string
	Vaults    int

	// record, when set, is called exactly once after the sequence ends.
	record func(state SessionState, contactInfo string, err error)

	mu      sync.Mutex
	state   SessionState
	contact string
	indexes []int
	err     error
	doneCh  chan struct{}
}

func newSession(kind, vaultsDir string, vaults int) *Session {
	return &Session{
		ID:        fmt.Sprintf("net-%d", time.Now().UnixMilli()),
		Kind:      kind,
		VaultsDir: vaultsDir,
		Vaults:    vaults,
		state:     StateRunning,
		doneCh:    make(chan struct{}),
	}
}

// runLaunch executes a full network launch and captures the result.
func (s *Session) runLaunch(r *launch.Runner, cfg launch.Config) {
	contactInfo, err := r.Launch(cfg)
	s.finish(contactInfo, nil, err)
}

// runJoin executes a join sequence and captures the assigned indexes.
func (s *Session) runJoin(r *launch.Runner, cfg launch.JoinConfig) {
	indexes, err := r.Join(cfg)
	s.finish("", indexes, err)
}

func (s *Session) finish(contactInfo string, indexes []int, err error) {
	s.mu.Lock()
	if err != nil {
		s.state = StateError
		s.err = err
	} else {
		s.state = StateDone
		s.contact = contactInfo
		s.indexes = indexes
	}
	state := s.state
	s.mu.Unlock()

	if s.record != nil {
		s.record(state, contactInfo, err)
	}
	close(s.doneCh)
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Contact returns the genesis contact info once a launch completed.
func (s *Session) Contact() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contact
}

// Indexes returns the vault indexes assigned by a completed join.
func (s *Session) Indexes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexes
}

// Err returns the sequence error, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done returns a channel that closes when the sequence completes.
func (s *Session) Done() <-chan struct{} {
	return s.doneCh
}
