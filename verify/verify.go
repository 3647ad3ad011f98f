// Package verify provides static checks and dry runs for glyph programs.
//
// This package implements two complementary verification stages:
//
// 1. Static Lint (lint.go): walks the program in sequencing order
//   - LABEL checks: jump references without a definition
//   - SHADOW checks: label definitions hidden by an earlier one
//   - OPERAND checks: accumulator selectors, literal digits, terminators
//   - BLOCK checks: conditionals with no END_IF and nothing to stop at after them
//   - SKIP checks: conditionals with no END_IF that only fault when skipped
//   - OPCODE checks: tokens in instruction position that select no operation
//
// 2. Trial Run (report.go): executes the program on a fresh interpreter with
// a step budget, capturing output instead of printing it.
//
// # Limitations
//
// The walk follows fall-through order only. A STACK_JUMP can land in the
// middle of an operand sequence, which the walk cannot see.
//
// # Usage Example
//
//	program, _ := core.LoadProgramFile("program", nil)
//	issues := verify.RunLint(program)
//	for _, issue := range issues {
//	    log.Printf("[%s] %d %q: %s", issue.Type, issue.Pos, issue.Token, issue.Message)
//	}
//
//	report := verify.GenerateReport(program, 10000)
//	report.WriteReport(os.Stdout)
package verify

// IssueType categorizes lint issues
type IssueType string

const (
	IssueLabel   IssueType = "LABEL"   // Jump target problems
	IssueOperand IssueType = "OPERAND" // Selector, digit or terminator problems
	IssueBlock   IssueType = "BLOCK"   // Conditional that runs off the program end
	IssueSkip    IssueType = "SKIP"    // Conditional without END_IF, faults only when skipped
	IssueOpcode  IssueType = "OPCODE"  // Unknown opcode, reported at run time but not fatal
	IssueShadow  IssueType = "SHADOW"  // Label defined again after its first definition
)

// Fatal reports whether a program with this issue faults when the offending
// position executes.
func (t IssueType) Fatal() bool {
	switch t {
	case IssueOpcode, IssueShadow, IssueSkip:
		return false
	default:
		return true
	}
}

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType              // LABEL, OPERAND, BLOCK, SKIP, OPCODE or SHADOW
	Pos     int                    // Token position (1-based)
	Token   string                 // Raw token at Pos
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data
}

// CountFatal returns how many issues would stop execution.
func CountFatal(issues []Issue) int {
	n := 0
	for _, issue := range issues {
		if issue.Type.Fatal() {
			n++
		}
	}
	return n
}
