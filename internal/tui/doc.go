// Package tui provides terminal user interface components for proxyctl.
//
// This package uses the Bubble Tea framework for the proxy picker behind
// "proxy pick".
//
// # Proxy Picker
//
// The picker lists the proxy catalogue and returns the chosen entry:
//
//	result, err := tui.RunPicker(entries, resolver, current)
//	switch result.Action {
//	case tui.ActionSelect:
//	    // Apply result.Endpoint
//	case tui.ActionQuit:
//	    // Exit
//	}
//
// Entries whose address matches current are marked as in use. SimplePicker
// renders the same list as plain text for non-interactive output.
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
