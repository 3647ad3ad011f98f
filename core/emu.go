package core

import (
	"context"
	"fmt"
	"log/slog"
)

type coreState struct {
	IP         int
	AccA, AccB int64
	Stack      []int64
	Code       Program

	Halted   bool
	Steps    uint64
	MaxSteps uint64 // 0 means unlimited
	Unknown  uint64 // unknown opcodes reported so far

	// blockDepth is non-zero while a conditional block loop is running.
	blockDepth int
}

type instEmulator struct {
	out    Output
	logger *slog.Logger
	debug  bool

	instFuncs map[Opcode]func(*coreState) error
}

func newInstEmulator(out Output, logger *slog.Logger, debug bool) *instEmulator {
	i := &instEmulator{
		out:    out,
		logger: logger,
		debug:  debug,
	}

	i.instFuncs = map[Opcode]func(*coreState) error{
		OpLabel:       i.runNop,
		OpEndIf:       i.runNop,
		OpAdd:         i.binary("add", func(a, b int64) int64 { return a + b }),
		OpSub:         i.binary("sub", func(a, b int64) int64 { return a - b }),
		OpMul:         i.binary("mul", func(a, b int64) int64 { return a * b }),
		OpXor:         i.runXor,
		OpDiv:         i.runDiv,
		OpMod:         i.runMod,
		OpDup:         i.runDup,
		OpDiscard:     i.runDiscard,
		OpIfZero:      func(s *coreState) error { return i.runConditional(s, "if_zero", func(v int64) bool { return v == 0 }) },
		OpIfNotZero:   func(s *coreState) error { return i.runConditional(s, "if_not_zero", func(v int64) bool { return v != 0 }) },
		OpJump:        i.runJump,
		OpStackJump:   i.runStackJump,
		OpLoad:        i.runLoad,
		OpPushFromAcc: i.runPushFromAcc,
		OpPopToAcc:    i.runPopToAcc,
		OpPrintChar:   i.runPrintChar,
		OpExit:        i.runExit,
	}

	return i
}

func (i *instEmulator) trace(msg string, args ...any) {
	if !i.debug {
		return
	}
	i.logger.Log(context.Background(), LevelTrace, msg, args...)
}

func (i *instEmulator) fault(state *coreState, errno Errno, token, detail string) *Error {
	stack := make([]int64, len(state.Stack))
	copy(stack, state.Stack)

	return &Error{
		Errno:  errno,
		IP:     state.IP,
		Token:  token,
		Detail: detail,
		Stack:  stack,
	}
}

// fetch returns the token at pos without moving the instruction pointer.
func (i *instEmulator) fetch(state *coreState, pos int) (Token, error) {
	t, ok := state.Code.At(pos)
	if !ok {
		return Token{}, i.fault(state, IndexOutOfRange, "",
			fmt.Sprintf("position %d outside program of length %d", pos, state.Code.Len()))
	}
	return t, nil
}

// RunInst performs one dispatch step: fetch, advance, execute.
func (i *instEmulator) RunInst(state *coreState) error {
	if state.MaxSteps > 0 && state.Steps >= state.MaxSteps {
		return ErrStepLimit
	}

	t, err := i.fetch(state, state.IP)
	if err != nil {
		return err
	}
	state.IP++
	state.Steps++

	i.trace("Processing instruction", "token", t.Raw, "opcode", t.Opcode.String(), "ip", state.IP-1)

	instFunc, ok := i.instFuncs[t.Opcode]
	if !ok {
		state.Unknown++
		i.logger.Warn("unknown instruction",
			"error", &Error{Errno: UnknownOpcode, IP: state.IP - 1, Token: t.Raw},
		)
		return nil
	}

	return instFunc(state)
}

func (i *instEmulator) pop(state *coreState, op string) (int64, error) {
	n := len(state.Stack)
	if n == 0 {
		return 0, i.fault(state, StackUnderflow, "", op+" needs a value on the stack")
	}
	v := state.Stack[n-1]
	state.Stack = state.Stack[:n-1]
	return v, nil
}

func (i *instEmulator) push(state *coreState, v int64) {
	state.Stack = append(state.Stack, v)
}

// popPair pops the right-hand operand first, then the left-hand one.
func (i *instEmulator) popPair(state *coreState, op string) (left, right int64, err error) {
	if len(state.Stack) < 2 {
		return 0, 0, i.fault(state, StackUnderflow, "",
			fmt.Sprintf("%s needs 2 values, stack has %d", op, len(state.Stack)))
	}
	right, _ = i.pop(state, op)
	left, _ = i.pop(state, op)
	return left, right, nil
}

func (i *instEmulator) runNop(_ *coreState) error {
	return nil
}

func (i *instEmulator) binary(op string, f func(a, b int64) int64) func(*coreState) error {
	return func(state *coreState) error {
		a, b, err := i.popPair(state, op)
		if err != nil {
			return err
		}
		i.push(state, f(a, b))
		return nil
	}
}

func (i *instEmulator) runXor(state *coreState) error {
	a, b, err := i.popPair(state, "xor")
	if err != nil {
		return err
	}
	i.trace("xor", "value", a, "with", b)
	i.push(state, a^b)
	return nil
}

func (i *instEmulator) runDiv(state *coreState) error {
	a, b, err := i.popPair(state, "div")
	if err != nil {
		return err
	}
	if b == 0 {
		return i.fault(state, ArithmeticFault, "", fmt.Sprintf("%d / 0", a))
	}
	i.push(state, a/b)
	return nil
}

func (i *instEmulator) runMod(state *coreState) error {
	a, b, err := i.popPair(state, "mod")
	if err != nil {
		return err
	}
	if b == 0 {
		return i.fault(state, ArithmeticFault, "", fmt.Sprintf("%d %% 0", a))
	}
	i.push(state, a%b)
	return nil
}

func (i *instEmulator) runDup(state *coreState) error {
	v, err := i.pop(state, "dup")
	if err != nil {
		return err
	}
	i.push(state, v)
	i.push(state, v)
	return nil
}

func (i *instEmulator) runDiscard(state *coreState) error {
	_, err := i.pop(state, "discard")
	return err
}

// runConditional peeks the stack top. When enter(top) holds, the block runs
// in place until END_IF or a jump-class token is next; otherwise execution
// resumes after the first END_IF.
func (i *instEmulator) runConditional(state *coreState, name string, enter func(int64) bool) error {
	n := len(state.Stack)
	if n == 0 {
		return i.fault(state, StackUnderflow, "", name+" needs a value on the stack")
	}
	top := state.Stack[n-1]

	if !enter(top) {
		i.trace(name+" skipped", "top", top)
		if err := i.skipToEndIf(state); err != nil {
			return err
		}
		state.IP++
		return nil
	}

	i.trace(name+" entered", "top", top)

	// An enclosing block loop stops on the same tokens.
	if state.blockDepth > 0 {
		return nil
	}

	return i.runBlock(state)
}

func (i *instEmulator) runBlock(state *coreState) error {
	state.blockDepth++
	defer func() { state.blockDepth-- }()

	for !state.Halted {
		t, err := i.fetch(state, state.IP)
		if err != nil {
			return err
		}
		if t.Kind == KindEndIf || t.Opcode.isJumpClass() {
			return nil
		}
		if err := i.RunInst(state); err != nil {
			return err
		}
	}

	return nil
}

func (i *instEmulator) skipToEndIf(state *coreState) error {
	for {
		t, err := i.fetch(state, state.IP)
		if err != nil {
			return err
		}
		if t.Kind == KindEndIf {
			return nil
		}
		state.IP++
	}
}

func (i *instEmulator) runJump(state *coreState) error {
	marker, err := i.fetch(state, state.IP)
	if err != nil {
		return err
	}

	if marker.Kind != KindLabelRef {
		return i.fault(state, MalformedOperand, marker.Raw, "jump needs a label reference")
	}

	pos, ok := state.Code.ResolveLabel(marker.Label)
	if !ok {
		return i.fault(state, UnresolvedLabel, marker.Raw, "no definition for label "+marker.Label)
	}

	i.trace("jump", "label", marker.Label, "target", pos+1)
	state.IP = pos + 1
	return nil
}

func (i *instEmulator) runStackJump(state *coreState) error {
	next, err := i.pop(state, "stack jump")
	if err != nil {
		return err
	}

	i.trace("Jump top", "target", next)
	state.IP = int(next)
	return nil
}

// readSelector consumes the accumulator selector at IP.
func (i *instEmulator) readSelector(state *coreState) (Accumulator, error) {
	t, err := i.fetch(state, state.IP)
	if err != nil {
		return NoAccumulator, err
	}
	if t.Kind != KindSelector {
		return NoAccumulator, i.fault(state, MalformedOperand, t.Raw, "expected accumulator selector")
	}
	state.IP++
	return t.Acc, nil
}

func (i *instEmulator) readAcc(state *coreState, acc Accumulator) int64 {
	if acc == AccB {
		return state.AccB
	}
	return state.AccA
}

func (i *instEmulator) writeAcc(state *coreState, acc Accumulator, v int64) {
	if acc == AccB {
		state.AccB = v
		return
	}
	state.AccA = v
}

/**
 * @description: Decimal literal into an accumulator, one digit per token.
 * @prototype: LOAD, Selector, Digit..., Terminator
 */
func (i *instEmulator) runLoad(state *coreState) error {
	acc, err := i.readSelector(state)
	if err != nil {
		return err
	}

	var num int64
	for {
		t, err := i.fetch(state, state.IP)
		if err != nil {
			return err
		}
		if t.Kind == KindTerminator {
			break
		}
		if t.Kind != KindDigit {
			return i.fault(state, MalformedOperand, t.Raw, "expected digit or terminator")
		}
		num = num*10 + t.Digit
		state.IP++
	}
	state.IP++

	i.writeAcc(state, acc, num)
	i.trace("load", "acc", acc.String(), "value", num)
	return nil
}

func (i *instEmulator) runPushFromAcc(state *coreState) error {
	acc, err := i.readSelector(state)
	if err != nil {
		return err
	}
	i.push(state, i.readAcc(state, acc))
	return nil
}

func (i *instEmulator) runPopToAcc(state *coreState) error {
	acc, err := i.readSelector(state)
	if err != nil {
		return err
	}
	v, err := i.pop(state, "pop")
	if err != nil {
		return err
	}
	i.writeAcc(state, acc, v)
	return nil
}

func (i *instEmulator) runPrintChar(state *coreState) error {
	v, err := i.pop(state, "print")
	if err != nil {
		return err
	}

	c := rune(uint8(v))
	if _, err := i.out.Write([]byte(string(c))); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := i.out.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

func (i *instEmulator) runExit(state *coreState) error {
	state.Halted = true
	return nil
}
