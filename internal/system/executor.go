package system

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
)

// osExecutor implements CommandExecutor using real OS operations.
type osExecutor struct{}

func (e *osExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

func (e *osExecutor) ExecuteInteractive(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	// Our stdout may be evaluated by the shell wrapper.
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (e *osExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// ExitCode returns the exit status carried by a command error, or -1 when
// err is nil or did not come from a process exit.
func ExitCode(err error) int {
	if err == nil {
		return -1
	}
	var coded interface{ ExitStatus() int }
	if errors.As(err, &coded) {
		return coded.ExitStatus()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// CommandLine renders a command for logs and error messages.
func CommandLine(name string, args ...string) string {
	return shellquote.Join(append([]string{name}, args...)...)
}

// OutputText trims command output for inclusion in error messages.
func OutputText(out []byte) string {
	return strings.TrimSpace(string(out))
}
