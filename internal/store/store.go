package store

// DefaultDBPath is the default relative path for the SQLite DB.
// Resolve against cwd; Open() creates the parent dir (.safe-nlt).
const DefaultDBPath = ".safe-nlt/safe-nlt.db"

// Run kinds.
const (
	KindLaunch = "launch"
	KindJoin   = "join"
)

// Run statuses.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Run is one recorded launch or join invocation. History is advisory:
// it records what was attempted, not whether vaults are still alive.
type Run struct {
	ID           int64
	Kind         string // launch or join
	Status       string // running, done, failed
	Vaults       int    // vaults launched (join: vaults added)
	IntervalSecs int
	VaultsDir    string
	Contact      string // bracketed genesis contact, when known
	Error        string // failure message, when failed
	StartedAt    string // RFC3339 UTC
	FinishedAt   string // empty while running
}

// Store is the run-history facade. CLI and MCP layers use only this
// interface; the implementation is SQLite or in-memory.
type Store interface {
	// CreateRun inserts a new run in StatusRunning and returns its id.
	// StartedAt is stamped when empty.
	CreateRun(run *Run) (int64, error)
	// FinishRun closes a run with the final status, stamping FinishedAt.
	// Contact and errMsg are recorded when non-empty.
	FinishRun(id int64, status, contact, errMsg string) error
	// GetRun returns the run by id, or nil if absent.
	GetRun(id int64) (*Run, error)
	// ListRuns returns up to limit runs, newest first. limit <= 0 means all.
	ListRuns(limit int) ([]*Run, error)
	Close() error
}
