package status

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	proxyerrors "github.com/firefly-engineering/proxyctl/internal/errors"
	"github.com/firefly-engineering/proxyctl/internal/layer"
)

// Status is the overall verdict.
type Status string

const (
	StatusOK           Status = "ok"
	StatusDisabled     Status = "disabled"
	StatusInconsistent Status = "inconsistent"
	StatusUnreadable   Status = "unreadable"
)

// Report is the aggregated view of every layer.
type Report struct {
	States   []layer.State
	Majority layer.Enablement
	Status   Status
	Problems []string
	Warnings []string
}

// OK reports whether the layers are consistently enabled.
func (r *Report) OK() bool {
	return r.Status == StatusOK
}

// Err returns nil for an OK report and a general error otherwise.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return proxyerrors.New(proxyerrors.ExitGeneralError, proxyerrors.KindGeneral, "proxy status: "+string(r.Status))
}

// Check reads every registered layer and summarizes them.
func Check(ctx context.Context, reg *layer.Registry) *Report {
	return Summarize(reg.ReadAll(ctx))
}

// Summarize builds a report from layer readings.
func Summarize(states []layer.State) *Report {
	r := &Report{States: states}

	var enabled, disabled int
	for _, st := range states {
		switch st.Enabled {
		case layer.Enabled:
			enabled++
		case layer.Disabled:
			disabled++
		default:
			r.Problems = append(r.Problems, fmt.Sprintf("%s: unreadable: %v", st.Layer.Label(), st.Err))
		}
	}

	// Ties go to disabled; they are inconsistent either way.
	r.Majority = layer.Disabled
	if enabled > disabled {
		r.Majority = layer.Enabled
	}

	for _, st := range states {
		if st.Enabled != layer.Unknown && st.Enabled != r.Majority {
			r.Problems = append(r.Problems, fmt.Sprintf("%s is %s, most layers are %s", st.Layer.Label(), st.Enabled, r.Majority))
		}
	}
	r.Warnings = endpointMismatches(states)

	switch {
	case enabled+disabled < len(states):
		r.Status = StatusUnreadable
	case enabled > 0 && disabled > 0:
		r.Status = StatusInconsistent
	case enabled == 0:
		r.Status = StatusDisabled
	default:
		r.Status = StatusOK
	}
	return r
}

// endpointMismatches flags enabled layers pointing at different proxies.
// It does not affect the verdict.
func endpointMismatches(states []layer.State) []string {
	var ref *layer.State
	var out []string
	for i := range states {
		st := &states[i]
		if st.Enabled != layer.Enabled || st.Endpoint == nil {
			continue
		}
		if ref == nil {
			ref = st
			continue
		}
		if st.Endpoint.HostPort() != ref.Endpoint.HostPort() {
			out = append(out, fmt.Sprintf("%s uses %s but %s uses %s",
				st.Layer.Label(), st.Endpoint.HostPort(), ref.Layer.Label(), ref.Endpoint.HostPort()))
		}
	}
	return out
}

// Render writes the report as a table. Colors are dropped when w is not a
// terminal.
func Render(w io.Writer, r *Report) error {
	re := lipgloss.NewRenderer(w)
	header := re.NewStyle().Bold(true).Padding(0, 1)
	cell := re.NewStyle().Padding(0, 1)
	green := cell.Foreground(lipgloss.Color("42"))
	yellow := cell.Foreground(lipgloss.Color("214"))
	red := cell.Foreground(lipgloss.Color("196"))

	rows := make([][]string, 0, len(r.States))
	for _, st := range r.States {
		ep := "-"
		if st.Endpoint != nil {
			ep = st.Endpoint.Redacted()
		}
		detail := st.Detail
		if st.Err != nil {
			detail = st.Err.Error()
		}
		rows = append(rows, []string{st.Layer.Label(), st.Enabled.String(), ep, detail})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(re.NewStyle().Foreground(lipgloss.Color("241"))).
		Headers("LAYER", "STATE", "ENDPOINT", "DETAIL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col != 1 || row < 0 || row >= len(r.States) {
				return cell
			}
			switch r.States[row].Enabled {
			case layer.Enabled:
				return green
			case layer.Disabled:
				return yellow
			default:
				return red
			}
		})

	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}

	verdict := green
	if !r.OK() {
		verdict = red
	}
	if _, err := fmt.Fprintln(w, verdict.UnsetPadding().Render("Overall: "+string(r.Status))); err != nil {
		return err
	}
	for _, p := range r.Problems {
		if _, err := fmt.Fprintln(w, "  ✗ "+p); err != nil {
			return err
		}
	}
	for _, msg := range r.Warnings {
		if _, err := fmt.Fprintln(w, "  ⚠ "+msg); err != nil {
			return err
		}
	}
	return nil
}
