package verify

import (
	"fmt"

	"github.com/sarchlab/glyphvm/core"
)

// RunLint performs static lint checks on a program.
// It follows the token sequence the way the dispatch loop would on
// fall-through, consuming operand tokens with their instruction.
// Returns a list of issues found, or empty list if no issues.
func RunLint(p core.Program) []Issue {
	var issues []Issue

	issues = append(issues, checkDuplicateLabels(p)...)

	pos := 1
	for pos < p.Len() {
		t := p.Tokens[pos]

		switch t.Kind {
		case core.KindLabelDef, core.KindEndIf:
			pos++
		case core.KindOpcode:
			var found []Issue
			pos, found = lintInst(p, pos)
			issues = append(issues, found...)
		default:
			issues = append(issues, Issue{
				Type:    IssueOpcode,
				Pos:     pos,
				Token:   t.Raw,
				Message: fmt.Sprintf("Token %q at %d selects no operation", t.Raw, pos),
				Details: map[string]interface{}{"kind": t.Kind.String()},
			})
			pos++
		}
	}

	return issues
}

// lintInst checks one instruction and returns the position after it.
func lintInst(p core.Program, pos int) (int, []Issue) {
	t := p.Tokens[pos]

	switch t.Opcode {
	case core.OpLoad:
		return lintLoad(p, pos)
	case core.OpPushFromAcc, core.OpPopToAcc:
		if issue, ok := checkSelector(p, pos); !ok {
			return pos + 2, []Issue{issue}
		}
		return pos + 2, nil
	case core.OpJump:
		return pos + 2, checkJump(p, pos)
	case core.OpIfZero, core.OpIfNotZero:
		return pos + 1, checkBlock(p, pos)
	default:
		return pos + 1, nil
	}
}

func checkSelector(p core.Program, pos int) (Issue, bool) {
	inst := p.Tokens[pos]

	sel, ok := p.At(pos + 1)
	if !ok {
		return Issue{
			Type:    IssueOperand,
			Pos:     pos,
			Token:   inst.Raw,
			Message: fmt.Sprintf("%s at %d has no accumulator selector before the end of the program", inst.Opcode, pos),
		}, false
	}

	if sel.Kind != core.KindSelector {
		return Issue{
			Type:    IssueOperand,
			Pos:     pos + 1,
			Token:   sel.Raw,
			Message: fmt.Sprintf("%s at %d expects an accumulator selector, got %q", inst.Opcode, pos, sel.Raw),
			Details: map[string]interface{}{"opcode": inst.Opcode.String(), "kind": sel.Kind.String()},
		}, false
	}

	return Issue{}, true
}

func lintLoad(p core.Program, pos int) (int, []Issue) {
	if issue, ok := checkSelector(p, pos); !ok {
		// Without a selector the literal cannot be followed reliably.
		return pos + 2, []Issue{issue}
	}

	var issues []Issue
	cur := pos + 2
	for {
		t, ok := p.At(cur)
		if !ok {
			issues = append(issues, Issue{
				Type:    IssueOperand,
				Pos:     pos,
				Token:   p.Tokens[pos].Raw,
				Message: fmt.Sprintf("LOAD at %d has no terminator", pos),
			})
			return cur, issues
		}

		switch t.Kind {
		case core.KindTerminator:
			return cur + 1, issues
		case core.KindDigit:
			cur++
		default:
			issues = append(issues, Issue{
				Type:    IssueOperand,
				Pos:     cur,
				Token:   t.Raw,
				Message: fmt.Sprintf("LOAD at %d expects digits, got %q at %d", pos, t.Raw, cur),
				Details: map[string]interface{}{"load": pos, "kind": t.Kind.String()},
			})
			return cur + 1, issues
		}
	}
}

func checkJump(p core.Program, pos int) []Issue {
	ref, ok := p.At(pos + 1)
	if !ok {
		return []Issue{{
			Type:    IssueOperand,
			Pos:     pos,
			Token:   p.Tokens[pos].Raw,
			Message: fmt.Sprintf("JUMP at %d has no label reference", pos),
		}}
	}

	if ref.Kind != core.KindLabelRef {
		return []Issue{{
			Type:    IssueOperand,
			Pos:     pos + 1,
			Token:   ref.Raw,
			Message: fmt.Sprintf("JUMP at %d expects a label reference, got %q", pos, ref.Raw),
		}}
	}

	if _, ok := p.ResolveLabel(ref.Label); !ok {
		return []Issue{{
			Type:    IssueLabel,
			Pos:     pos + 1,
			Token:   ref.Raw,
			Message: fmt.Sprintf("Label %q referenced at %d is never defined", ref.Label, pos+1),
			Details: map[string]interface{}{"label": ref.Label},
		}}
	}

	return nil
}

// checkBlock looks for the END_IF a skipped conditional scans to. Without one
// the skip path faults, but an entered block still stops at EXIT or a jump,
// so the issue is only fatal when nothing after the conditional stops it.
func checkBlock(p core.Program, pos int) []Issue {
	stops := false
	for cur := pos + 1; cur < p.Len(); cur++ {
		t := p.Tokens[cur]
		if t.Kind == core.KindEndIf {
			return nil
		}
		switch t.Opcode {
		case core.OpExit, core.OpJump, core.OpStackJump:
			stops = true
		}
	}

	inst := p.Tokens[pos]
	if stops {
		return []Issue{{
			Type:    IssueSkip,
			Pos:     pos,
			Token:   inst.Raw,
			Message: fmt.Sprintf("%s at %d has no END_IF after it and faults if its block is skipped", inst.Opcode, pos),
		}}
	}

	return []Issue{{
		Type:    IssueBlock,
		Pos:     pos,
		Token:   inst.Raw,
		Message: fmt.Sprintf("%s at %d has no END_IF after it and runs off the program end", inst.Opcode, pos),
	}}
}

func checkDuplicateLabels(p core.Program) []Issue {
	var issues []Issue

	first := p.Labels()
	for pos, t := range p.Tokens {
		if t.Kind != core.KindLabelDef {
			continue
		}
		if def := first[t.Label]; def != pos {
			issues = append(issues, Issue{
				Type:    IssueShadow,
				Pos:     pos,
				Token:   t.Raw,
				Message: fmt.Sprintf("Label %q at %d is shadowed by the definition at %d", t.Label, pos, def),
				Details: map[string]interface{}{"label": t.Label, "first": def},
			})
		}
	}

	return issues
}
