package system

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
)

// MockFS implements FileSystem for testing.
type MockFS struct {
	mu    sync.RWMutex
	files map[string]*mockFile
	dirs  map[string]bool

	// Error injection
	ReadFileErr  error
	WriteFileErr error
	RemoveErr    error
	MkdirAllErr  error
}

type mockFile struct {
	data []byte
	mode fs.FileMode
}

// NewMockFS creates a new MockFS with an empty filesystem.
func NewMockFS() *MockFS {
	return &MockFS{
		files: make(map[string]*mockFile),
		dirs:  make(map[string]bool),
	}
}

// AddFile adds a file to the mock filesystem.
func (m *MockFS) AddFile(path string, data []byte, mode fs.FileMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = &mockFile{data: data, mode: mode}
	dir := filepath.Dir(path)
	for dir != "." && dir != "/" {
		m.dirs[dir] = true
		dir = filepath.Dir(dir)
	}
}

// GetFile returns the contents of a file in the mock filesystem.
func (m *MockFS) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path]
	if !ok {
		return nil, false
	}
	return f.data, true
}

func (m *MockFS) ReadFile(path string) ([]byte, error) {
	if m.ReadFileErr != nil {
		return nil, m.ReadFileErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return f.data, nil
}

func (m *MockFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	if m.WriteFileErr != nil {
		return m.WriteFileErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = &mockFile{data: data, mode: perm}
	return nil
}

func (m *MockFS) Remove(path string) error {
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; ok {
		delete(m.files, path)
		return nil
	}
	if _, ok := m.dirs[path]; ok {
		delete(m.dirs, path)
		return nil
	}
	return fs.ErrNotExist
}

func (m *MockFS) MkdirAll(path string, perm fs.FileMode) error {
	if m.MkdirAllErr != nil {
		return m.MkdirAllErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current := path
	for current != "." && current != "/" {
		m.dirs[current] = true
		current = filepath.Dir(current)
	}
	return nil
}

func (m *MockFS) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, fileOk := m.files[path]
	_, dirOk := m.dirs[path]
	return fileOk || dirOk
}

// MockExitError simulates a process that exited with a non-zero status.
type MockExitError struct {
	Code   int
	Stderr string
}

func (e *MockExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("exit status %d: %s", e.Code, e.Stderr)
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitStatus returns the simulated exit code.
func (e *MockExitError) ExitStatus() int {
	return e.Code
}

// MockExecutor implements CommandExecutor for testing.
type MockExecutor struct {
	mu sync.Mutex

	// Commands records all executed commands for verification.
	Commands []MockCommand

	// Responses maps command patterns to responses.
	// Key format: "command arg1 arg2..."; the longest matching prefix of the
	// actual command line wins.
	Responses map[string]MockResponse

	// DefaultResponse is used when no matching response is found.
	DefaultResponse MockResponse

	// Paths maps executable names to LookPath results. Names that are
	// absent resolve to /usr/bin/<name> unless listed in Missing.
	Paths map[string]string

	// Missing lists executables LookPath should not find.
	Missing map[string]bool
}

// MockCommand records an executed command.
type MockCommand struct {
	Name        string
	Args        []string
	Interactive bool
}

// String renders the command as a single space-joined line.
func (c MockCommand) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// MockResponse defines the response for a command.
type MockResponse struct {
	Output []byte
	Err    error
}

// NewMockExecutor creates a new MockExecutor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Commands:  make([]MockCommand, 0),
		Responses: make(map[string]MockResponse),
		Paths:     make(map[string]string),
		Missing:   make(map[string]bool),
	}
}

// AddResponse adds a response for a specific command pattern.
func (m *MockExecutor) AddResponse(pattern string, output []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[pattern] = MockResponse{Output: output, Err: err}
}

// SetMissing marks an executable as absent from PATH.
func (m *MockExecutor) SetMissing(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Missing[name] = true
}

// lookup finds the response for the longest matching command prefix.
// Callers must hold m.mu.
func (m *MockExecutor) lookup(name string, args []string) MockResponse {
	for i := len(args); i >= 0; i-- {
		key := strings.Join(append([]string{name}, args[:i]...), " ")
		if resp, ok := m.Responses[key]; ok {
			return resp
		}
	}
	return m.DefaultResponse
}

func (m *MockExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Commands = append(m.Commands, MockCommand{Name: name, Args: args})

	resp := m.lookup(name, args)
	return resp.Output, resp.Err
}

func (m *MockExecutor) ExecuteInteractive(ctx context.Context, name string, args ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Commands = append(m.Commands, MockCommand{Name: name, Args: args, Interactive: true})

	return m.lookup(name, args).Err
}

func (m *MockExecutor) LookPath(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Missing[name] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	if p, ok := m.Paths[name]; ok {
		return p, nil
	}
	return "/usr/bin/" + name, nil
}

// LastCommand returns the most recently executed command.
func (m *MockExecutor) LastCommand() (MockCommand, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Commands) == 0 {
		return MockCommand{}, false
	}
	return m.Commands[len(m.Commands)-1], true
}

// CommandLines returns every recorded command rendered with String.
func (m *MockExecutor) CommandLines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := make([]string, len(m.Commands))
	for i, c := range m.Commands {
		lines[i] = c.String()
	}
	return lines
}

// Reset clears all recorded commands.
func (m *MockExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = make([]MockCommand, 0)
}

// MockEnv implements Environment over an in-memory map.
type MockEnv struct {
	mu   sync.RWMutex
	vars map[string]string

	SetenvErr error
}

// NewMockEnv creates a MockEnv seeded with vars.
func NewMockEnv(vars map[string]string) *MockEnv {
	m := &MockEnv{vars: make(map[string]string)}
	for k, v := range vars {
		m.vars[k] = v
	}
	return m
}

func (m *MockEnv) Getenv(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vars[key]
}

func (m *MockEnv) Setenv(key, value string) error {
	if m.SetenvErr != nil {
		return m.SetenvErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vars[key] = value
	return nil
}

func (m *MockEnv) Unsetenv(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vars, key)
	return nil
}

// Lookup reports whether key is set.
func (m *MockEnv) Lookup(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vars[key]
	return v, ok
}
