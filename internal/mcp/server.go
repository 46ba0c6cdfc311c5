package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"safenlt/internal/launch"
	"safenlt/internal/logging"
	"safenlt/internal/netstat"
	"safenlt/internal/store"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP SDK server and manages network sessions.
//
// One session is tracked at a time: the most recent launch or join. Tool
// calls that omit a vaults_dir operate on the tracked session's network.
type Server struct {
	MCPServer *sdkmcp.Server

	// Runner drives launch and join sequences. NewServer configures it
	// quiet: stdout belongs to the stdio transport, so progress output
	// is discarded and only the debug log mirror remains.
	Runner *launch.Runner
	// Scanner inspects vault directories for network_status.
	Scanner *netstat.Scanner
	// Store, when set, records run history. Recording is best-effort;
	// store failures never fail a tool call.
	Store store.Store

	mu      sync.Mutex
	session *Session
}

// NewServer creates an MCP server with network management tools.
func NewServer() *Server {
	s := &Server{
		Runner:  &launch.Runner{Out: io.Discard},
		Scanner: &netstat.Scanner{},
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "safe-nlt", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "launch_network",
		Description: "Launch a local vault test network: genesis first, then followers joined to it. Returns a session ID immediately; poll network_status for completion.",
	}, s.handleLaunchNetwork)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "join_vaults",
		Description: "Add vaults to an already-running network. Returns a session ID immediately; poll network_status for the assigned indexes.",
	}, s.handleJoinVaults)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "network_status",
		Description: "Report the tracked session's state and scan the network's vault directories: roles, log sizes, and scraped contact info.",
	}, s.handleNetworkStatus)
}

// --- Tool input/output types ---

type launchNetworkInput struct {
	Vaults          int    `json:"vaults,omitempty" jsonschema:"network size including genesis (default 8)"`
	IntervalSecs    *int   `json:"interval_secs,omitempty" jsonschema:"seconds to wait between launches (default 5, 0 = no wait)"`
	VaultsDir       string `json:"vaults_dir,omitempty" jsonschema:"output root for instance directories (default ./vaults)"`
	VaultPath       string `json:"vault_path,omitempty" jsonschema:"explicit vault executable path (default ~/.safe/vault/safe_vault)"`
	VaultsVerbosity int    `json:"vaults_verbosity,omitempty" jsonschema:"-v count forwarded to every vault"`
	Force           bool   `json:"force,omitempty" jsonschema:"start even if another operation is still running"`
}

type launchNetworkOutput struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	Vaults    int    `json:"vaults"`
	VaultsDir string `json:"vaults_dir"`
}

type joinVaultsInput struct {
	Vaults          int    `json:"vaults,omitempty" jsonschema:"how many vaults to add (default 1)"`
	IntervalSecs    *int   `json:"interval_secs,omitempty" jsonschema:"seconds to wait between launches (default 5, 0 = no wait)"`
	VaultsDir       string `json:"vaults_dir,omitempty" jsonschema:"network root (defaults to the tracked session's)"`
	VaultPath       string `json:"vault_path,omitempty" jsonschema:"explicit vault executable path"`
	VaultsVerbosity int    `json:"vaults_verbosity,omitempty" jsonschema:"-v count forwarded to every vault"`
	Contacts        string `json:"contacts,omitempty" jsonschema:"bracketed contact info to join through (defaults to scraping the genesis log)"`
}

type joinVaultsOutput struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	Vaults    int    `json:"vaults"`
	VaultsDir string `json:"vaults_dir"`
}

type networkStatusInput struct {
	VaultsDir string `json:"vaults_dir,omitempty" jsonschema:"network root to scan (defaults to the tracked session's)"`
	WaitDone  bool   `json:"wait_done,omitempty" jsonschema:"block until the tracked operation completes before reporting"`
}

type vaultStatusOutput struct {
	Dir        string `json:"dir"`
	Index      int    `json:"index"`
	Role       string `json:"role"`
	Contact    string `json:"contact,omitempty"`
	LogBytes   int64  `json:"log_bytes"`
	LogAgeSecs int    `json:"log_age_secs"`
	Error      string `json:"error,omitempty"`
}

type networkStatusOutput struct {
	SessionID      string              `json:"session_id,omitempty"`
	Operation      string              `json:"operation,omitempty"`
	Status         string              `json:"status,omitempty"`
	OpError        string              `json:"op_error,omitempty"`
	NetworkContact string              `json:"network_contact,omitempty"`
	JoinedIndexes  []int               `json:"joined_indexes,omitempty"`
	VaultsDir      string              `json:"vaults_dir"`
	Total          int                 `json:"total"`
	Vaults         []vaultStatusOutput `json:"vaults"`
}

// --- Tool handlers ---

func (s *Server) handleLaunchNetwork(ctx context.Context, _ *sdkmcp.CallToolRequest, input launchNetworkInput) (*sdkmcp.CallToolResult, launchNetworkOutput, error) {
	logger := logging.New("mcp-session")

	cfg := launch.Config{
		VaultPath:       input.VaultPath,
		VaultsDir:       input.VaultsDir,
		NumVaults:       input.Vaults,
		Interval:        intervalFrom(input.IntervalSecs),
		VaultsVerbosity: input.VaultsVerbosity,
	}
	if cfg.VaultsDir == "" {
		cfg.VaultsDir = launch.DefaultVaultsDir
	}
	if cfg.NumVaults < 1 {
		cfg.NumVaults = launch.DefaultNumVaults
	}

	if err := s.replaceSession(input.Force, logger); err != nil {
		return nil, launchNetworkOutput{}, err
	}

	sess := s.startSession(store.KindLaunch, cfg.VaultsDir, cfg.NumVaults, int(cfg.Interval/time.Second))
	logger.Info("launching network", "session", sess.ID, "vaults", cfg.NumVaults, "vaults_dir", cfg.VaultsDir)
	go sess.runLaunch(s.Runner, cfg)

	return nil, launchNetworkOutput{
		SessionID: sess.ID,
		Status:    string(StateRunning),
		Vaults:    cfg.NumVaults,
		VaultsDir: cfg.VaultsDir,
	}, nil
}

func (s *Server) handleJoinVaults(ctx context.Context, _ *sdkmcp.CallToolRequest, input joinVaultsInput) (*sdkmcp.CallToolResult, joinVaultsOutput, error) {
	logger := logging.New("mcp-session")

	cfg := launch.JoinConfig{
		VaultPath:       input.VaultPath,
		VaultsDir:       input.VaultsDir,
		NumVaults:       input.Vaults,
		Interval:        intervalFrom(input.IntervalSecs),
		VaultsVerbosity: input.VaultsVerbosity,
		Contacts:        input.Contacts,
	}
	if cfg.NumVaults < 1 {
		cfg.NumVaults = 1
	}
	if cfg.VaultsDir == "" {
		cfg.VaultsDir = s.trackedVaultsDir()
	}

	if err := s.replaceSession(false, logger); err != nil {
		return nil, joinVaultsOutput{}, err
	}

	sess := s.startSession(store.KindJoin, cfg.VaultsDir, cfg.NumVaults, int(cfg.Interval/time.Second))
	logger.Info("joining vaults", "session", sess.ID, "vaults", cfg.NumVaults, "vaults_dir", cfg.VaultsDir)
	go sess.runJoin(s.Runner, cfg)

	return nil, joinVaultsOutput{
		SessionID: sess.ID,
		Status:    string(StateRunning),
		Vaults:    cfg.NumVaults,
		VaultsDir: cfg.VaultsDir,
	}, nil
}

func (s *Server) handleNetworkStatus(ctx context.Context, _ *sdkmcp.CallToolRequest, input networkStatusInput) (*sdkmcp.CallToolResult, networkStatusOutput, error) {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()

	var out networkStatusOutput
	if sess != nil {
		if input.WaitDone {
			select {
			case <-sess.Done():
			case <-ctx.Done():
				return nil, networkStatusOutput{}, ctx.Err()
			}
		}
		out.SessionID = sess.ID
		out.Operation = sess.Kind
		out.Status = string(sess.State())
		if err := sess.Err(); err != nil {
			out.OpError = err.Error()
		}
		out.JoinedIndexes = sess.Indexes()
	}

	dir := input.VaultsDir
	if dir == "" && sess != nil {
		dir = sess.VaultsDir
	}
	if dir == "" {
		dir = launch.DefaultVaultsDir
	}
	out.VaultsDir = dir

	vaults, err := s.Scanner.Scan(ctx, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if sess == nil {
				return nil, networkStatusOutput{}, fmt.Errorf("no vault network found in %s", dir)
			}
			// A tracked operation exists but left no footprint yet (or
			// failed before creating anything). Report the session state
			// with an empty scan instead of hiding it behind an error.
			out.Vaults = []vaultStatusOutput{}
			return nil, out, nil
		}
		return nil, networkStatusOutput{}, err
	}

	out.NetworkContact = netstat.NetworkContact(vaults)
	out.Total = len(vaults)
	out.Vaults = make([]vaultStatusOutput, 0, len(vaults))
	for _, v := range vaults {
		row := vaultStatusOutput{
			Dir:        v.Dir,
			Index:      v.Index,
			Role:       v.Role,
			Contact:    v.Contact,
			LogBytes:   v.LogSize,
			LogAgeSecs: int(v.LogAge / time.Second),
		}
		if v.Err != nil {
			row.Error = v.Err.Error()
		}
		out.Vaults = append(out.Vaults, row)
	}

	return nil, out, nil
}

// --- Session bookkeeping ---

// replaceSession clears a completed session, or fails when one is still
// running and force is false.
func (s *Server) replaceSession(force bool, logger *slog.Logger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}
	select {
	case <-s.session.Done():
		logger.Info("replacing completed session", "old_id", s.session.ID)
	default:
		if !force {
			return fmt.Errorf("a network operation is already running (id=%s)", s.session.ID)
		}
		logger.Warn("abandoning running session; its vaults keep launching", "old_id", s.session.ID)
	}
	s.session = nil
	return nil
}

// startSession creates and tracks a session, recording it in the run
// history when a store is configured.
func (s *Server) startSession(kind, vaultsDir string, vaults, intervalSecs int) *Session {
	sess := newSession(kind, vaultsDir, vaults)

	if s.Store != nil {
		run := &store.Run{
			Kind:         kind,
			Vaults:       vaults,
			IntervalSecs: intervalSecs,
			VaultsDir:    vaultsDir,
		}
		if id, err := s.Store.CreateRun(run); err == nil {
			st := s.Store
			sess.record = func(state SessionState, contactInfo string, opErr error) {
				status := store.StatusDone
				errMsg := ""
				if state == StateError {
					status = store.StatusFailed
					if opErr != nil {
						errMsg = opErr.Error()
					}
				}
				_ = st.FinishRun(id, status, contactInfo, errMsg)
			}
		}
	}

	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
	return sess
}

func (s *Server) trackedVaultsDir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		return s.session.VaultsDir
	}
	return launch.DefaultVaultsDir
}

// SessionID returns the tracked session's ID, or empty string if none.
func (s *Server) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		return s.session.ID
	}
	return ""
}

// Shutdown drops the tracked session. An in-flight sequence still runs to
// completion; launched vaults are never stopped.
func (s *Server) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
}

// intervalFrom maps the optional interval_secs argument to a duration.
// Absent means the standard launch interval, not zero.
func intervalFrom(secs *int) time.Duration {
	if secs == nil {
		return launch.DefaultInterval
	}
	if *secs < 0 {
		return 0
	}
	return time.Duration(*secs) * time.Second
}
