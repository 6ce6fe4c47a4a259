// Package kconfig reads and writes KDE configuration keys through
// kreadconfig6 and kwriteconfig6.
package kconfig

import (
	"context"
	"fmt"
	"strings"

	"github.com/firefly-engineering/proxyctl/internal/logging"
	"github.com/firefly-engineering/proxyctl/internal/system"
)

// Store is one group of one KDE config file.
type Store struct {
	Exec         system.CommandExecutor
	File         string
	Group        string
	ReadCommand  string
	WriteCommand string

	// LockPath, when set, is flocked around every write batch so two
	// invocations cannot interleave their key writes.
	LockPath string
}

// KV is a single key/value pair to write.
type KV struct {
	Key   string
	Value string
}

// CanRead reports whether the read tool is installed.
func (s *Store) CanRead() bool {
	_, err := s.Exec.LookPath(s.ReadCommand)
	return err == nil
}

// CanWrite reports whether the write tool is installed.
func (s *Store) CanWrite() bool {
	_, err := s.Exec.LookPath(s.WriteCommand)
	return err == nil
}

// Get returns the value of key, or "" when it is unset.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	args := []string{"--file", s.File, "--group", s.Group, "--key", key}
	out, err := s.Exec.Execute(ctx, s.ReadCommand, args...)
	if err != nil {
		return "", fmt.Errorf("%s failed: %w (%s)", system.CommandLine(s.ReadCommand, args...), err, system.OutputText(out))
	}
	return strings.TrimSpace(string(out)), nil
}

// Set writes every pair in order while holding the lock, then asks running
// KIO workers to reload their proxy settings.
func (s *Store) Set(ctx context.Context, pairs ...KV) error {
	if s.LockPath != "" {
		unlock, err := system.LockFile(s.LockPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := unlock(); err != nil {
				logging.Debug("failed to release config lock", "path", s.LockPath, "error", err)
			}
		}()
	}

	for _, kv := range pairs {
		args := []string{"--file", s.File, "--group", s.Group, "--key", kv.Key, kv.Value}
		out, err := s.Exec.Execute(ctx, s.WriteCommand, args...)
		if err != nil {
			return fmt.Errorf("%s %s failed: %w (%s)", s.WriteCommand, kv.Key, err, system.OutputText(out))
		}
		logging.Debug("wrote desktop config key", "file", s.File, "key", kv.Key)
	}

	s.notifyReload(ctx)
	return nil
}

// notifyReload is best-effort: applications pick the change up on their
// next start anyway.
func (s *Store) notifyReload(ctx context.Context) {
	if _, err := s.Exec.LookPath("dbus-send"); err != nil {
		return
	}
	_, err := s.Exec.Execute(ctx, "dbus-send", "--type=signal", "/KIO/Scheduler",
		"org.kde.KIO.Scheduler.reparseSlaveConfiguration", "string:")
	if err != nil {
		logging.Debug("KIO reload signal failed", "error", err)
	}
}
