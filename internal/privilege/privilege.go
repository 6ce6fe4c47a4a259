package privilege

import (
	"context"
	"fmt"

	proxyerrors "github.com/firefly-engineering/proxyctl/internal/errors"
	"github.com/firefly-engineering/proxyctl/internal/logging"
	"github.com/firefly-engineering/proxyctl/internal/system"
)

// Outcome is the result of an elevation attempt.
type Outcome int

const (
	Granted Outcome = iota
	Denied
	Unavailable
)

func (o Outcome) String() string {
	switch o {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	default:
		return "unavailable"
	}
}

// pkexec exit statuses for a dismissed dialog and a failed authorization.
const (
	exitDismissed     = 126
	exitNotAuthorized = 127
)

// HelperCommand is the hidden subcommand the helper binary is run with.
const HelperCommand = "redirect-helper"

// Elevator invokes Helper as root.
type Elevator struct {
	Exec   system.CommandExecutor
	Helper string
	Tool   string
}

// New creates an Elevator for the helper binary at path.
func New(exec system.CommandExecutor, helper string) *Elevator {
	return &Elevator{Exec: exec, Helper: helper, Tool: "pkexec"}
}

// Available reports whether the elevation tool is installed.
func (e *Elevator) Available() bool {
	_, err := e.Exec.LookPath(e.Tool)
	return err == nil
}

// Run executes "<helper> redirect-helper args..." through pkexec. The
// helper stays attached to the terminal so its messages reach the user, on
// stderr.
func (e *Elevator) Run(ctx context.Context, args ...string) (Outcome, error) {
	if !e.Available() {
		return Unavailable, proxyerrors.MissingResource(e.Tool, fmt.Errorf("%s not found in PATH", e.Tool))
	}

	argv := append([]string{e.Helper, HelperCommand}, args...)
	logging.Debug("elevating", "command", system.CommandLine(e.Tool, argv...))

	err := e.Exec.ExecuteInteractive(ctx, e.Tool, argv...)
	if err == nil {
		return Granted, nil
	}

	switch code := system.ExitCode(err); code {
	case exitDismissed, exitNotAuthorized:
		return Denied, proxyerrors.AuthorizationDenied(HelperCommand + " " + firstArg(args))
	case -1:
		return Unavailable, fmt.Errorf("failed to start %s: %w", e.Tool, err)
	default:
		return Granted, fmt.Errorf("%s exited with status %d", HelperCommand, code)
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
