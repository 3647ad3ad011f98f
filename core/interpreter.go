package core

// Status is the machine state after a dispatch step.
type Status int

const (
	Running Status = iota
	Halted
)

func (s Status) String() string {
	if s == Halted {
		return "halted"
	}
	return "running"
}

// Result summarizes a finished run.
type Result struct {
	Status  Status
	Steps   uint64
	Unknown uint64
}

// Interpreter executes one program on one machine state.
type Interpreter struct {
	state coreState
	emu   *instEmulator
}

// Load installs a program and resets the machine. Execution starts at
// position 1.
func (in *Interpreter) Load(p Program) {
	maxSteps := in.state.MaxSteps
	in.state = coreState{
		IP:       1,
		Code:     p,
		MaxSteps: maxSteps,
	}
}

// Step runs one dispatch step. A conditional block entered by this step runs
// to its end within the same call.
func (in *Interpreter) Step() (Status, error) {
	if in.state.Halted {
		return Halted, nil
	}

	if err := in.emu.RunInst(&in.state); err != nil {
		return Running, err
	}

	if in.state.Halted {
		return Halted, nil
	}
	return Running, nil
}

// Run dispatches until EXIT, a fatal error or the step limit.
func (in *Interpreter) Run() (Result, error) {
	for {
		status, err := in.Step()
		if err != nil || status == Halted {
			return in.result(status), err
		}
	}
}

func (in *Interpreter) result(status Status) Result {
	return Result{
		Status:  status,
		Steps:   in.state.Steps,
		Unknown: in.state.Unknown,
	}
}

// IP returns the instruction pointer.
func (in *Interpreter) IP() int {
	return in.state.IP
}

// AccA returns accumulator A.
func (in *Interpreter) AccA() int64 {
	return in.state.AccA
}

// AccB returns accumulator B.
func (in *Interpreter) AccB() int64 {
	return in.state.AccB
}

// Stack returns a copy of the operand stack, bottom first.
func (in *Interpreter) Stack() []int64 {
	out := make([]int64, len(in.state.Stack))
	copy(out, in.state.Stack)
	return out
}

// Halted reports whether EXIT has run.
func (in *Interpreter) Halted() bool {
	return in.state.Halted
}

// Steps returns the number of dispatch steps executed.
func (in *Interpreter) Steps() uint64 {
	return in.state.Steps
}

// Program returns the loaded program.
func (in *Interpreter) Program() Program {
	return in.state.Code
}
