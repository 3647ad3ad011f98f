package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	LevelTrace slog.Level = slog.LevelInfo + 1
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// PrintState renders the registers and the operand stack as tables.
func PrintState(w io.Writer, in *Interpreter) {
	fmt.Fprintln(w, "==============State==============")

	regTable := table.NewWriter()
	regTable.SetTitle("Registers")
	regTable.AppendHeader(table.Row{"IP", "Token", "A", "B", "Steps", "Halted"})

	token := "<out of range>"
	if t, ok := in.state.Code.At(in.state.IP); ok {
		token = t.Raw
	}
	regTable.AppendRow(table.Row{
		in.state.IP, token, in.state.AccA, in.state.AccB, in.state.Steps, in.state.Halted,
	})
	fmt.Fprintln(w, regTable.Render())
	fmt.Fprintln(w)

	stackTable := table.NewWriter()
	stackTable.SetTitle("Operand Stack")
	stackTable.AppendHeader(table.Row{"Depth", "Value", "Char"})
	for d := len(in.state.Stack) - 1; d >= 0; d-- {
		v := in.state.Stack[d]
		stackTable.AppendRow(table.Row{len(in.state.Stack) - 1 - d, v, fmt.Sprintf("%q", rune(uint8(v)))})
	}
	if len(in.state.Stack) == 0 {
		stackTable.AppendFooter(table.Row{"", "empty", ""})
	}
	fmt.Fprintln(w, stackTable.Render())
	fmt.Fprintln(w, "=================================")
}

// LogState emits the machine state through the interpreter's logger.
func LogState(in *Interpreter) {
	in.emu.logger.Log(context.Background(), LevelTrace, "StateCheckpoint",
		"IP", in.state.IP,
		"A", in.state.AccA,
		"B", in.state.AccB,
		"Stack", in.state.Stack,
		"Steps", in.state.Steps,
		"Halted", in.state.Halted,
	)
}
