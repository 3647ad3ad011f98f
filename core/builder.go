package core

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"
)

// Builder can create new interpreters and cores.
type Builder struct {
	engine   sim.Engine
	freq     sim.Freq
	out      Output
	logger   *slog.Logger
	debug    bool
	maxSteps uint64
}

// NewBuilder returns a builder with stdout-free defaults: output is
// discarded and logs go to slog.Default().
func NewBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithOutput sets where PRINT_CHAR writes.
func (b Builder) WithOutput(out Output) Builder {
	b.out = out
	return b
}

// WithLogger sets the logger used for traces and reports.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

// WithDebug enables trace output.
func (b Builder) WithDebug(debug bool) Builder {
	b.debug = debug
	return b
}

// WithMaxSteps bounds the number of dispatch steps. Zero means no limit.
func (b Builder) WithMaxSteps(n uint64) Builder {
	b.maxSteps = n
	return b
}

// BuildInterpreter creates an interpreter with no program loaded.
func (b Builder) BuildInterpreter() *Interpreter {
	out := b.out
	if out == nil {
		out = Discard
	}
	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	in := &Interpreter{
		emu: newInstEmulator(out, logger, b.debug),
	}
	in.state.MaxSteps = b.maxSteps
	in.state.IP = 1

	return in
}

// Build creates a core that runs an interpreter on the engine, one dispatch
// step per cycle.
func (b Builder) Build(name string) *Core {
	if b.engine == nil {
		panic("core builder needs an engine")
	}

	c := &Core{
		engine: b.engine,
		interp: b.BuildInterpreter(),
	}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	return c
}
