// Package system provides abstractions for OS operations to enable testing.
package system

import (
	"context"
	"io/fs"
	"os"
)

// FileSystem abstracts file system operations for testability.
type FileSystem interface {
	// ReadFile reads the named file and returns the contents.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to the named file, creating it if necessary.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// Remove removes the named file or empty directory.
	Remove(path string) error

	// MkdirAll creates a directory named path, along with any necessary parents.
	MkdirAll(path string, perm fs.FileMode) error

	// Exists returns true if the path exists.
	Exists(path string) bool
}

// CommandExecutor abstracts command execution for testability.
type CommandExecutor interface {
	// Execute runs a command and returns its combined output.
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)

	// ExecuteInteractive runs a command attached to the terminal: stdin and
	// stderr are inherited and the command's stdout is sent to stderr.
	// Used for pkexec, whose text-mode authentication agent needs the tty.
	ExecuteInteractive(ctx context.Context, name string, args ...string) error

	// LookPath searches for an executable named name in PATH.
	LookPath(name string) (string, error)
}

// Environment abstracts the process environment.
type Environment interface {
	Getenv(key string) string
	Setenv(key, value string) error
	Unsetenv(key string) error
}

// DefaultFS returns the FileSystem backed by the real OS.
func DefaultFS() FileSystem {
	return &osFileSystem{}
}

// DefaultExecutor returns the CommandExecutor that runs real processes.
func DefaultExecutor() CommandExecutor {
	return &osExecutor{}
}

// DefaultEnv returns the Environment backed by the process environment.
func DefaultEnv() Environment {
	return &osEnvironment{}
}

// osFileSystem implements FileSystem using real OS operations.
type osFileSystem struct{}

func (f *osFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (f *osFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (f *osFileSystem) Remove(path string) error {
	return os.Remove(path)
}

func (f *osFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (f *osFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// osEnvironment implements Environment using the process environment.
type osEnvironment struct{}

func (e *osEnvironment) Getenv(key string) string {
	return os.Getenv(key)
}

func (e *osEnvironment) Setenv(key, value string) error {
	return os.Setenv(key, value)
}

func (e *osEnvironment) Unsetenv(key string) error {
	return os.Unsetenv(key)
}
