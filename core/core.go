package core

import (
	"github.com/sarchlab/akita/v4/sim"
)

// HookPosInstRetired marks when a dispatch step completes on a core.
var HookPosInstRetired = &sim.HookPos{Name: "Inst Retired"}

// HookPosFault marks when a core stops on a fatal error.
var HookPosFault = &sim.HookPos{Name: "Core Fault"}

// Core runs an interpreter as a ticking component, one dispatch step per
// cycle.
type Core struct {
	*sim.TickingComponent

	engine sim.Engine
	interp *Interpreter
	err    error
}

// MapProgram sets the program that the core needs to run and schedules the
// first tick.
func (c *Core) MapProgram(p Program) {
	c.interp.Load(p)
	c.err = nil
	c.TickNow()
}

// Tick runs the program for one cycle.
func (c *Core) Tick() (madeProgress bool) {
	if c.err != nil || c.interp.Halted() {
		return false
	}

	ip := c.interp.IP()
	status, err := c.interp.Step()
	if err != nil {
		c.err = err
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosFault,
			Item:   err,
		})
		c.interp.emu.trace("CoreFault",
			"Core", c.Name(),
			"Time", float64(c.engine.CurrentTime()*1e9),
			"IP", ip,
			"Error", err.Error(),
		)
		return false
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosInstRetired,
		Item:   ip,
	})

	return status == Running
}

// Run drives the engine until the core halts or faults.
func (c *Core) Run() (Result, error) {
	if err := c.engine.Run(); err != nil {
		return c.interp.result(Running), err
	}

	status := Running
	if c.interp.Halted() {
		status = Halted
	}

	return c.interp.result(status), c.err
}

// Interpreter exposes the machine the core drives.
func (c *Core) Interpreter() *Interpreter {
	return c.interp
}

// Err returns the fault that stopped the core, if any.
func (c *Core) Err() error {
	return c.err
}

// RetireRecorder is a hook that records the position of every retired
// dispatch step.
type RetireRecorder struct {
	Positions []int
}

// Func implements sim.Hook.
func (r *RetireRecorder) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosInstRetired {
		return
	}
	if ip, ok := ctx.Item.(int); ok {
		r.Positions = append(r.Positions, ip)
	}
}
