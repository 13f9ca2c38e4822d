// Package ui prints user-facing console output.
package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

// Out receives everything printed here.
var Out io.Writer = os.Stdout

var Styles = struct {
	Bold       lipgloss.Style
	SummaryBox lipgloss.Style
	ErrorBox   lipgloss.Style
}{
	Bold: lipgloss.NewStyle().Bold(true),

	SummaryBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("42")).
		Padding(0, 1),

	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("196")).
		Padding(0, 1),
}

func PrintSuccess(format string, args ...any) {
	successColor.Fprintf(Out, "✓ %s\n", fmt.Sprintf(format, args...))
}

// PrintError prints a failure inside the error box.
func PrintError(format string, args ...any) {
	msg := errorColor.Sprintf("✗ %s", fmt.Sprintf(format, args...))
	fmt.Fprintln(Out, Styles.ErrorBox.Render(msg))
}

func PrintWarning(format string, args ...any) {
	warningColor.Fprintf(Out, "⚠ %s\n", fmt.Sprintf(format, args...))
}

func PrintInfo(format string, args ...any) {
	infoColor.Fprintf(Out, "ℹ %s\n", fmt.Sprintf(format, args...))
}

// Stat is one line of a summary box.
type Stat struct {
	Label string
	Value int
}

// Summary renders a titled box of right-aligned counts.
func Summary(title string, stats []Stat) string {
	width := 0
	for _, s := range stats {
		width = max(width, len(s.Label))
	}
	var b strings.Builder
	b.WriteString(Styles.Bold.Render(title))
	b.WriteString("\n")
	for _, s := range stats {
		fmt.Fprintf(&b, "\n%-*s  %6d", width, s.Label, s.Value)
	}
	return Styles.SummaryBox.Render(b.String())
}

func PrintSummary(title string, stats []Stat) {
	fmt.Fprintln(Out, Summary(title, stats))
}

// PrintList prints a heading and one indented line per item, numbered.
func PrintList(heading string, items []string) {
	if len(items) == 0 {
		return
	}
	warningColor.Fprintf(Out, "%s (%d)\n", heading, len(items))
	for i, it := range items {
		fmt.Fprintf(Out, "  %3d. %s\n", i+1, it)
	}
}

// StatsOf turns a count map into Stats, ordered by order then by label.
func StatsOf[K ~string](counts map[K]int, order []K) []Stat {
	seen := map[K]bool{}
	var out []Stat
	for _, k := range order {
		seen[k] = true
		out = append(out, Stat{Label: string(k), Value: counts[k]})
	}
	var rest []string
	for k := range counts {
		if !seen[k] {
			rest = append(rest, string(k))
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		out = append(out, Stat{Label: k, Value: counts[K(k)]})
	}
	return out
}
