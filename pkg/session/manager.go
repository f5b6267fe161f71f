// Package session maps session identifiers to filesystem locations and
// owns the per-session locking policy.
package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docportal/docportal/pkg/domain"
)

type Manager struct {
	logger *slog.Logger
}

func NewManager(logger *slog.Logger) *Manager {
	return &Manager{logger: logger}
}

// sessionIDPattern matches identifiers produced by NewID. Prune only
// touches directories of this shape; anything else under a base directory
// is not session data.
var sessionIDPattern = regexp.MustCompile(`^session_\d{8}_\d{6}_[0-9a-f]{8}$`)

// NewID generates a session identifier whose lexical order matches its
// creation time, e.g. session_20260901_153012_9f3ac1d2.
func NewID() string {
	stamp := time.Now().UTC().Format("20060102_150405")
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("session_%s_%s", stamp, suffix)
}

// Resolve maps a session id to its directory under baseDir. An empty id
// with create=true allocates a fresh session. The returned id is always
// the effective one.
func (m *Manager) Resolve(baseDir, sessionID string, create bool) (id, path string, err error) {
	if sessionID == "" {
		if !create {
			return "", "", fmt.Errorf("%w: session id required", domain.ErrInvalidInput)
		}
		sessionID = NewID()
	}
	if strings.ContainsAny(sessionID, `/\`) || sessionID == "." || sessionID == ".." {
		return "", "", fmt.Errorf("%w: invalid session id %q", domain.ErrInvalidInput, sessionID)
	}

	dir := filepath.Join(baseDir, sessionID)
	if create {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", "", fmt.Errorf("creating session dir %s: %w", dir, err)
		}
		m.logger.Info("session resolved", "session_id", sessionID, "path", dir)
	}
	return sessionID, dir, nil
}

// Prune removes all but the newest keepLatest session directories under
// baseDir, ordering by the timestamp embedded in the generated ids.
// Directories that do not match the generated id shape are left alone. A
// no-op when fewer sessions exist.
func (m *Manager) Prune(baseDir string, keepLatest int) error {
	if keepLatest < 0 {
		keepLatest = 0
	}

	entries, err := os.ReadDir(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("listing sessions in %s: %w", baseDir, err)
	}

	var sessions []string
	for _, e := range entries {
		if e.IsDir() && sessionIDPattern.MatchString(e.Name()) {
			sessions = append(sessions, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(sessions)))

	for _, name := range sessions[min(keepLatest, len(sessions)):] {
		dir := filepath.Join(baseDir, name)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing session %s: %w", name, err)
		}
		m.logger.Info("old session pruned", "session_id", name)
	}
	return nil
}
