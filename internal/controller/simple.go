package controller

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

var (
	addedLine   = color.New(color.FgGreen)
	removedLine = color.New(color.FgRed)
	hunkLine    = color.New(color.FgCyan)
)

// SimpleUI implements UI using the cobra command's output streams.
type SimpleUI struct {
	cmd  *cobra.Command
	in   *bufio.Reader
	mu   sync.Mutex
	mode StartMode
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := StartConfig{mode: ModeApply}
	for _, option := range options {
		option(&cfg)
	}

	s.mu.Lock()
	s.mode = cfg.mode
	s.mu.Unlock()

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayFileResult prints the outcome for one target file.
func (s *SimpleUI) DisplayFileResult(ctx context.Context, result m.FileResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.printf("%s\n", fileHeadline(result, s.mode))

	for _, report := range result.Reports {
		s.printf("  %s %s (%s): %s\n", statusMark(report.Status), report.Patch, report.Kind, matchSummary(report))
	}

	if s.mode == ModePlan && result.Diff != "" {
		s.printf("%s", colorizeDiff(result.Diff))
	}
}

// DisplaySummary prints a table with one row per target file.
func (s *SimpleUI) DisplaySummary(ctx context.Context, results []m.FileResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.printf("\n%s", renderSummaryTable(results))
}

// Confirm prints the diff and reads a y/N answer from the command's input.
func (s *SimpleUI) Confirm(ctx context.Context, target m.Path, diff string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.printf("%s", colorizeDiff(diff))
	s.printf("Write changes to %s? (y/N): ", target)

	if s.in == nil {
		s.in = bufio.NewReader(s.cmd.InOrStdin())
	}

	answer, err := s.in.ReadString('\n')
	if err != nil && answer == "" {
		return false, nil
	}

	return strings.EqualFold(strings.TrimSpace(answer), "y"), nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func fileHeadline(result m.FileResult, mode StartMode) string {
	switch {
	case result.Err != nil:
		return fmt.Sprintf("Failed %s: %v", result.Target, result.Err)
	case result.Written:
		return fmt.Sprintf("Patched %s (%d change(s))", result.Target, result.Matches())
	case !result.Changed():
		return fmt.Sprintf("Unchanged %s", result.Target)
	case mode == ModePlan:
		return fmt.Sprintf("Would patch %s (%d change(s))", result.Target, result.Matches())
	default:
		return fmt.Sprintf("Skipped %s", result.Target)
	}
}

func statusMark(status m.PatchStatus) string {
	switch status {
	case m.Applied, m.Planned:
		return "✓"
	case m.NoMatch:
		return "!"
	case m.Failed:
		return "✗"
	default:
		return "-"
	}
}

func matchSummary(report m.Report) string {
	if report.Err != nil {
		return report.Err.Error()
	}

	if report.Status == m.NoMatch {
		return "no match"
	}

	return fmt.Sprintf("%d match(es), %d -> %d lines", report.Matches, report.LinesBefore, report.LinesAfter)
}

func colorizeDiff(diff string) string {
	var b strings.Builder

	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			b.WriteString(line)
		case strings.HasPrefix(line, "@@"):
			b.WriteString(hunkLine.Sprint(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(addedLine.Sprint(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(removedLine.Sprint(line))
		default:
			b.WriteString(line)
		}
	}

	return b.String()
}

func fileStatus(result m.FileResult) string {
	switch {
	case result.Err != nil:
		return m.Failed.String()
	case result.Written:
		return m.Applied.String()
	case !result.Changed():
		return "unchanged"
	default:
		return m.Planned.String()
	}
}

func renderSummaryTable(results []m.FileResult) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Target", "Patches", "Matches", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	totalPatches := 0
	totalMatches := 0
	failed := 0

	for _, result := range results {
		table.Append([]string{
			string(result.Target),
			fmt.Sprintf("%d", len(result.Reports)),
			fmt.Sprintf("%d", result.Matches()),
			fileStatus(result),
		})

		totalPatches += len(result.Reports)
		totalMatches += result.Matches()

		if result.Err != nil {
			failed++
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(results)),
		fmt.Sprintf("%d", totalPatches),
		fmt.Sprintf("%d", totalMatches),
		fmt.Sprintf("%d failed", failed),
	})

	table.Render()

	return tableBuffer.String()
}
