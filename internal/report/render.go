// Package report renders run results for the terminal.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"forgeci/internal/core"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	skipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	configStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

func marker(s core.Status) string {
	switch s {
	case core.StatusPassed:
		return passStyle.Render("✓")
	case core.StatusFailed:
		return failStyle.Render("✗")
	case core.StatusSkipped:
		return skipStyle.Render("○")
	default:
		return "·"
	}
}

func verdict(s core.Status) string {
	switch s {
	case core.StatusPassed:
		return passStyle.Render("PASSED")
	case core.StatusFailed:
		return failStyle.Render("FAILED")
	default:
		return skipStyle.Render(strings.ToUpper(string(s)))
	}
}

// Render formats a run result as a terminal summary: one section per
// configuration with per-step markers and durations, then the overall
// verdict.
func Render(res *core.RunResult) string {
	var b strings.Builder

	title := fmt.Sprintf("%s  %s on %q", res.Pipeline, res.Trigger.Event, res.Trigger.Branch)
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")

	if !res.Triggered {
		b.WriteString(skipStyle.Render("not triggered: branch is not on the allow-list"))
		b.WriteString("\n")
		return boxStyle.Render(b.String()) + "\n"
	}

	for _, cfg := range res.Configurations {
		b.WriteString("\n")
		b.WriteString(configStyle.Render(cfg.Name))
		b.WriteString(" " + verdict(cfg.Status) + "\n")
		for _, step := range cfg.Steps {
			line := fmt.Sprintf("  %s %-15s", marker(step.Status), step.Name)
			if step.Status == core.StatusPassed || step.Status == core.StatusFailed {
				line += " " + step.FinishedAt.Sub(step.StartedAt).Round(time.Millisecond).String()
			}
			if step.Status == core.StatusFailed {
				line += fmt.Sprintf("  exit %d", step.ExitCode)
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n")
	total := res.FinishedAt.Sub(res.StartedAt).Round(time.Millisecond)
	b.WriteString(fmt.Sprintf("%s in %s\n", verdict(res.Status), total))

	return boxStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

// RenderFailure prints the captured output of every failed step, so
// the user can see why a run went red without digging for log files.
func RenderFailure(res *core.RunResult) string {
	var b strings.Builder
	for _, cfg := range res.Configurations {
		for _, step := range cfg.Steps {
			if step.Status != core.StatusFailed {
				continue
			}
			head := fmt.Sprintf("%s / %s (exit %d)", cfg.Name, step.Name, step.ExitCode)
			b.WriteString(failStyle.Render(head) + "\n")
			b.WriteString(fmt.Sprintf("  $ %s\n", step.Command))
			out := strings.TrimRight(step.Output, "\n")
			if out != "" {
				for _, line := range strings.Split(out, "\n") {
					b.WriteString("  " + line + "\n")
				}
			}
		}
	}
	return b.String()
}
