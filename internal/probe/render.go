package probe

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Render writes probe results as a table and returns how many passed.
func Render(w io.Writer, results []Result) (int, error) {
	re := lipgloss.NewRenderer(w)
	cell := re.NewStyle().Padding(0, 1)
	pass := cell.Foreground(lipgloss.Color("42"))
	fail := cell.Foreground(lipgloss.Color("196"))

	var passed int
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		proxy := r.Candidate
		if r.Endpoint != nil {
			proxy = r.Endpoint.HostPort()
		}
		verdict, status, latency := "✓ ok", strconv.Itoa(r.Status), r.Latency.Round(time.Millisecond).String()
		if r.OK() {
			passed++
		} else {
			verdict = "✗ " + r.Err.Error()
		}
		if r.Status == 0 {
			status = "-"
		}
		if r.Latency == 0 {
			latency = "-"
		}
		rows = append(rows, []string{r.Candidate, proxy, status, latency, verdict})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(re.NewStyle().Foreground(lipgloss.Color("241"))).
		Headers("CANDIDATE", "PROXY", "STATUS", "LATENCY", "RESULT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cell.Bold(true)
			}
			if col != 4 || row < 0 || row >= len(results) {
				return cell
			}
			if results[row].OK() {
				return pass
			}
			return fail
		})

	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return passed, err
	}
	_, err := fmt.Fprintf(w, "%d of %d proxies reachable\n", passed, len(results))
	return passed, err
}
