package controller

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

func newTestCmd(input string) (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(input))

	return cmd, &out
}

func appliedResult() m.FileResult {
	return m.FileResult{
		Target: "PageResult.java",
		Reports: []m.Report{
			{Patch: "drop casts", Kind: m.PatchReplace, Matches: 2, LinesBefore: 10, LinesAfter: 10, Status: m.Applied},
			{Patch: "regex", Kind: m.PatchRegex, Status: m.NoMatch, LinesBefore: 10, LinesAfter: 10},
		},
		Diff:    "--- a/PageResult.java\n+++ b/PageResult.java\n@@ -1 +1 @@\n-(int) x\n+x\n",
		Written: true,
	}
}

func TestSimpleUI_DisplayFileResult(t *testing.T) {
	cmd, out := newTestCmd("")
	ui := NewSimpleUI(cmd)

	if err := ui.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ui.DisplayFileResult(context.Background(), appliedResult())

	output := out.String()
	for _, want := range []string{
		"Patched PageResult.java (2 change(s))",
		"✓ drop casts (replace): 2 match(es), 10 -> 10 lines",
		"! regex (regex): no match",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}

	if strings.Contains(output, "-(int) x") {
		t.Errorf("apply mode should not print the diff:\n%s", output)
	}
}

func TestSimpleUI_PlanModePrintsDiff(t *testing.T) {
	cmd, out := newTestCmd("")
	ui := NewSimpleUI(cmd)

	if err := ui.Start(context.Background(), WithPlanMode()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	result := appliedResult()
	result.Written = false
	result.Reports[0].Status = m.Planned

	ui.DisplayFileResult(context.Background(), result)

	output := out.String()
	if !strings.Contains(output, "Would patch PageResult.java (2 change(s))") {
		t.Errorf("missing plan headline:\n%s", output)
	}

	if !strings.Contains(output, "-(int) x") || !strings.Contains(output, "+x") {
		t.Errorf("plan mode should print the diff:\n%s", output)
	}
}

func TestSimpleUI_DisplayFailedResult(t *testing.T) {
	cmd, out := newTestCmd("")
	ui := NewSimpleUI(cmd)

	ui.DisplayFileResult(context.Background(), m.FileResult{
		Target:  "Missing.java",
		Err:     errors.New("read Missing.java: no such file or directory"),
		Reports: []m.Report{{Patch: "casts", Kind: m.PatchReplace, Status: m.Failed, Err: errors.New("boom")}},
	})

	output := out.String()
	if !strings.Contains(output, "Failed Missing.java: read Missing.java") {
		t.Errorf("missing failure headline:\n%s", output)
	}

	if !strings.Contains(output, "✗ casts (replace): boom") {
		t.Errorf("missing failed report:\n%s", output)
	}
}

func TestSimpleUI_DisplaySummary(t *testing.T) {
	cmd, out := newTestCmd("")
	ui := NewSimpleUI(cmd)

	ui.DisplaySummary(context.Background(), []m.FileResult{
		appliedResult(),
		{Target: "Other.java", Reports: []m.Report{{Status: m.NoMatch}}},
		{Target: "Missing.java", Err: errors.New("missing")},
	})

	output := out.String()
	for _, want := range []string{"TARGET", "PageResult.java", "applied", "unchanged", "failed", "TOTAL FILES 3", "1 FAILED"} {
		if !strings.Contains(output, want) {
			t.Errorf("summary missing %q:\n%s", want, output)
		}
	}
}

func TestSimpleUI_Confirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []bool
	}{
		{"yes then no", "y\nn\n", []bool{true, false}},
		{"uppercase yes", "Y\n", []bool{true}},
		{"empty answer declines", "\n", []bool{false}},
		{"end of input declines", "", []bool{false}},
		{"last answer without newline", "y", []bool{true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, out := newTestCmd(tt.input)
			ui := NewSimpleUI(cmd)

			for i, want := range tt.want {
				got, err := ui.Confirm(context.Background(), "A.java", "-a\n+b\n")
				if err != nil {
					t.Fatalf("Confirm() error = %v", err)
				}

				if got != want {
					t.Errorf("Confirm() #%d = %v, want %v", i, got, want)
				}
			}

			if !strings.Contains(out.String(), "Write changes to A.java? (y/N): ") {
				t.Errorf("missing prompt:\n%s", out.String())
			}
		})
	}
}

func TestNewUI(t *testing.T) {
	cmd, _ := newTestCmd("")

	if _, ok := NewUI(cmd, false).(*SimpleUI); !ok {
		t.Error("NewUI(false) should return *SimpleUI")
	}

	if _, ok := NewUI(cmd, true).(*TUI); !ok {
		t.Error("NewUI(true) should return *TUI")
	}

	if IsTTY(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
}
