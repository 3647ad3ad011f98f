package core

import (
	"errors"
	"fmt"
)

// Fault kinds raised by the interpreter.
const (
	StackUnderflow = Errno(iota + 1)
	ArithmeticFault
	UnresolvedLabel
	MalformedOperand
	IndexOutOfRange
	UnknownOpcode
)

var strError = map[Errno]string{
	StackUnderflow:   "stack underflow",
	ArithmeticFault:  "arithmetic fault",
	UnresolvedLabel:  "unresolved label",
	MalformedOperand: "malformed operand",
	IndexOutOfRange:  "index out of range",
	UnknownOpcode:    "unknown opcode",
}

// Errno describes the reason for a fault.
type Errno int

func (e Errno) Error() string {
	if s, ok := strError[e]; ok {
		return s
	}
	return fmt.Sprintf("errno %d", int(e))
}

// Fatal reports whether execution stops on this fault. Only UnknownOpcode is
// recoverable.
func (e Errno) Fatal() bool {
	return e != UnknownOpcode
}

// ErrStepLimit is returned by Run when the configured step budget is spent.
var ErrStepLimit = errors.New("step limit reached")

// Error describes a fault and the machine context it happened in.
type Error struct {
	Errno  Errno
	IP     int     // instruction pointer when the fault was detected
	Token  string  // raw token involved, if any
	Detail string  // extra context
	Stack  []int64 // operand stack snapshot
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("glyphvm: %s at %d", e.Errno, e.IP)
	if e.Token != "" {
		msg += fmt.Sprintf(" (%q)", e.Token)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap lets errors.Is match the Errno.
func (e *Error) Unwrap() error {
	return e.Errno
}
