// Package summary renders the end-of-run report printed to the console.
package summary

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/history"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

var columnWidths = []int{10, 12, 10, 8, 8, 18}

func cell(width int, style lipgloss.Style, text string) string {
	return style.Width(width).Render(text)
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "ok":
		return okStyle
	case "no_files", "skipped":
		return warnStyle
	default:
		return failStyle
	}
}

// Render formats a run as a small table: one row per platform plus a footer
// naming the outcome and the log file.
func Render(run history.Run, logPath string) string {
	var rows []string

	title := fmt.Sprintf("Documentation run %s", run.ID)
	rows = append(rows, titleStyle.Render(title))

	headers := []string{"Platform", "Version", "Commit", "Script", "Files", "Status"}
	var header []string
	for i, h := range headers {
		header = append(header, cell(columnWidths[i], headerStyle, h))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for _, p := range run.Platforms {
		version := p.Version
		if version == "" {
			version = "-"
		}
		commit := p.Commit
		if len(commit) > 8 {
			commit = commit[:8]
		}
		if commit == "" {
			commit = "-"
		}
		script := "skipped"
		if p.ScriptRan {
			script = "exit " + strconv.Itoa(p.ExitCode)
		}
		row := []string{
			cell(columnWidths[0], lipgloss.NewStyle(), p.Platform),
			cell(columnWidths[1], lipgloss.NewStyle(), version),
			cell(columnWidths[2], mutedStyle, commit),
			cell(columnWidths[3], lipgloss.NewStyle(), script),
			cell(columnWidths[4], lipgloss.NewStyle(), strconv.Itoa(p.FilesCopied)),
			cell(columnWidths[5], statusStyle(p.Status), p.Status),
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	outcome := statusStyle(outcomeStatus(run.Outcome)).Render(strings.ToUpper(run.Outcome))
	footer := fmt.Sprintf("\nOutcome: %s  Duration: %s", outcome, run.FinishedAt.Sub(run.StartedAt).Round(1e6))
	if run.Error != "" {
		footer += "\n" + failStyle.Render(run.Error)
	}
	if logPath != "" {
		footer += "\n" + mutedStyle.Render("Log: "+logPath)
	}
	rows = append(rows, footer)

	return lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n"
}

func outcomeStatus(outcome string) string {
	switch outcome {
	case "success":
		return "ok"
	case "warning":
		return "no_files"
	default:
		return "failed"
	}
}
