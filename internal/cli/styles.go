// Package cli provides the command-line interface for stripjson.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/seanhalberthal/stripjson/internal/types"
)

// Colour palette for file states and UI elements.
//
//nolint:misspell // lipgloss uses American spelling (Color) for its API
var (
	// Status colours
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))             // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true) // Red
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))            // Yellow

	// UI elements
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // Grey
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")) // White
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")) // Dark grey
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))  // Cyan
	kindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("141")) // Purple
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	checkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))  // Green checkmark
	crossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // Red cross
)

// Symbols for output.
const (
	checkMark = "✓"
	crossMark = "✗"
	bullet    = "•"
	arrow     = "→"
)

// formatPath returns a styled file path.
func formatPath(path string) string {
	return pathStyle.Render(path)
}

// formatKind returns a styled file kind.
func formatKind(kind string) string {
	return kindStyle.Render(kind)
}

// formatSuccess returns a styled success message.
func formatSuccess(msg string) string {
	return successStyle.Render(checkMark+" ") + msg
}

// formatError returns a styled error message.
func formatError(msg string) string {
	return errorStyle.Render(crossMark+" ") + msg
}

// formatWarning returns a styled warning message.
func formatWarning(msg string) string {
	return warnStyle.Render("! ") + msg
}

// formatLabel returns a styled label (for key-value pairs).
func formatLabel(label string) string {
	return labelStyle.Render(label + ":")
}

// formatHeader returns a styled header.
func formatHeader(text string) string {
	return headerStyle.Render(text)
}

// formatSection returns a styled section header.
func formatSection(text string) string {
	return sectionStyle.Render(text)
}

// formatDivider returns a styled divider line.
func formatDivider(width int) string {
	return dividerStyle.Render(strings.Repeat("─", width))
}

// formatMuted returns muted/dimmed text.
func formatMuted(text string) string {
	return mutedStyle.Render(text)
}

// printStyledError prints a styled error to stderr.
func printStyledError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(os.Stderr, formatError(msg))
}

// plural returns "n word" with a trailing s when n != 1.
func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// formatStats summarises what was stripped from a file.
func formatStats(stats types.StripStats) string {
	parts := []string{
		plural(stats.LineComments+stats.BlockComments, "comment"),
		plural(stats.TrailingCommas, "trailing comma"),
	}
	if stats.Unterminated {
		parts = append(parts, "unterminated block comment")
	}
	return strings.Join(parts, ", ")
}

// formatFileLine renders one file of a scan report.
func formatFileLine(f types.FileResult) string {
	var mark string
	switch {
	case f.Error != "":
		return fmt.Sprintf("  %s %s %s", crossStyle.Render(crossMark), formatPath(f.Path), errorStyle.Render(f.Error))
	case !f.Valid:
		mark = crossStyle.Render(crossMark)
	case f.Written:
		mark = checkStyle.Render(checkMark)
	case f.Changed:
		mark = warnStyle.Render(bullet)
	default:
		mark = mutedStyle.Render(bullet)
	}

	line := fmt.Sprintf("  %s %s %s %s", mark, formatPath(f.Path), formatKind(f.Kind), formatMuted(formatStats(f.Stats)))
	if f.Written {
		line += " " + formatMuted(arrow+" written")
	}
	if f.Syntax != nil {
		line += fmt.Sprintf("\n      %s", formatWarning(fmt.Sprintf("%d:%d %s", f.Syntax.Line, f.Syntax.Column, f.Syntax.Message)))
	}
	return line
}

// printFileLine prints a single file result to stdout.
func printFileLine(f types.FileResult) {
	fmt.Println(formatFileLine(f))
}

// printScanReport prints a human-readable scan report to stdout.
func printScanReport(result *types.ScanResult) {
	fmt.Println(formatHeader("stripjson scan") + " " + formatMuted(result.Root))
	fmt.Println(formatDivider(40))

	if len(result.Files) == 0 {
		fmt.Println(formatMuted("  no JSONC files found"))
	}
	for _, f := range result.Files {
		printFileLine(f)
	}

	s := result.Summary
	fmt.Println(formatSection("Summary"))
	rows := []struct {
		label string
		value int
	}{
		{"Files scanned", s.FilesScanned},
		{"Files changed", s.FilesChanged},
		{"Files written", s.FilesWritten},
		{"Comments", s.Comments},
		{"Trailing commas", s.TrailingCommas},
	}
	for _, row := range rows {
		fmt.Printf("  %s %s\n", formatLabel(row.label), valueStyle.Render(fmt.Sprint(row.value)))
	}

	switch {
	case s.FailedFiles > 0:
		fmt.Println(formatError(fmt.Sprintf("%s could not be processed", plural(s.FailedFiles, "file"))))
	case s.InvalidFiles > 0:
		fmt.Println(formatWarning(fmt.Sprintf("%s not valid JSON after stripping", plural(s.InvalidFiles, "file"))))
	default:
		fmt.Println(formatSuccess("all files are valid JSON after stripping"))
	}
}
