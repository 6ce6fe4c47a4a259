// Package logging holds the two output channels of the proxy CLI.
//
// Diagnostics go through a global log/slog logger configured once by Setup
// from --verbose and --json. They are keyed by pass ID and layer so one
// reconciliation can be followed across lines:
//
//	logging.Debug("applying layer", "pass", id, "layer", name)
//
// Messages meant for the person at the terminal use the User helpers, which
// prefix ℹ, ✓, ⚠ or ✗:
//
//	logging.UserSuccess("Desktop config: enabled via %s", ep.Redacted())
//	logging.UserWarning("Desktop proxy mode is PAC, nothing to sync")
//
// Info and success lines normally go to stdout and warnings and errors to
// stderr. UseStderr sends everything to stderr; the shell commands call it
// because their stdout is evaluated by the wrapper function.
package logging
