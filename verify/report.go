package verify

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/glyphvm/core"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	Program       core.Program
	LintIssues    []Issue
	FatalIssues   []Issue
	Warnings      []Issue
	Result        core.Result
	Output        string
	SimulationErr error
	SimulationOK  bool
}

// GenerateReport runs the lint and a trial run, returns a report. The trial
// run stops after maxSteps dispatch steps; zero means no limit.
func GenerateReport(p core.Program, maxSteps uint64) *VerificationReport {
	report := &VerificationReport{
		Program: p,
	}

	report.LintIssues = RunLint(p)
	for _, issue := range report.LintIssues {
		if issue.Type.Fatal() {
			report.FatalIssues = append(report.FatalIssues, issue)
		} else {
			report.Warnings = append(report.Warnings, issue)
		}
	}

	var out bytes.Buffer
	in := core.NewBuilder().
		WithOutput(core.NewFlushWriter(&out)).
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))).
		WithMaxSteps(maxSteps).
		BuildInterpreter()
	in.Load(p)

	report.Result, report.SimulationErr = in.Run()
	report.Output = out.String()
	report.SimulationOK = report.SimulationErr == nil &&
		report.Result.Status == core.Halted

	return report
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "GLYPH PROGRAM VERIFICATION REPORT")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\n✓ Loaded %d tokens, %d labels (%s)\n",
		r.Program.Len()-1, len(r.Program.Labels()), isaName(r.Program))

	// STAGE 1: LINT
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "✓ No lint issues found!")
	} else {
		fmt.Fprintf(w, "⚠ Found %d lint issues (%d fatal):\n\n",
			len(r.LintIssues), len(r.FatalIssues))

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"#", "Type", "Pos", "Token", "Message"})
		for i, issue := range r.LintIssues {
			t.AppendRow(table.Row{i + 1, issue.Type, issue.Pos, issue.Token, issue.Message})
		}
		t.Render()
	}

	// STAGE 2: TRIAL RUN
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 2: TRIAL RUN")
	fmt.Fprintln(w, separator)

	switch {
	case r.SimulationOK:
		fmt.Fprintf(w, "✓ Program halted after %d steps\n", r.Result.Steps)
	case r.SimulationErr != nil:
		fmt.Fprintf(w, "⚠ Run error after %d steps: %v\n", r.Result.Steps, r.SimulationErr)
	default:
		fmt.Fprintf(w, "⚠ Program stopped without EXIT after %d steps\n", r.Result.Steps)
	}
	if r.Result.Unknown > 0 {
		fmt.Fprintf(w, "  %d unknown opcodes skipped\n", r.Result.Unknown)
	}
	if r.Output != "" {
		fmt.Fprintf(w, "  Output: %q\n", r.Output)
	}

	// STAGE 3: SUMMARY
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "VERIFICATION SUMMARY")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "Lint Result: %d issues detected (%d fatal, %d warnings)\n",
		len(r.LintIssues), len(r.FatalIssues), len(r.Warnings))
	runStatus := "SUCCESS"
	if !r.SimulationOK {
		runStatus = "FAILED"
		if r.SimulationErr != nil {
			runStatus += ": " + r.SimulationErr.Error()
		}
	}
	fmt.Fprintf(w, "Trial Run Result: %s\n", runStatus)

	if r.Passed() {
		fmt.Fprintln(w, "\n✓ PROGRAM PASSED ALL CHECKS")
	}

	fmt.Fprintln(w)
}

// Passed reports whether the program has no fatal lint issue and halted in
// the trial run.
func (r *VerificationReport) Passed() bool {
	return len(r.FatalIssues) == 0 && r.SimulationOK
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}

func isaName(p core.Program) string {
	if p.ISA() == nil {
		return "no ISA"
	}
	return p.ISA().Name()
}
