package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/glyphvm/core"
	"github.com/tebeka/atexit"
)

//go:embed hello.glyph
var helloProgram string

func main() {
	engine := sim.NewSerialEngine()

	c := core.NewBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithOutput(core.NewFlushWriter(os.Stdout)).
		Build("Core")

	recorder := &core.RetireRecorder{}
	c.AcceptHook(recorder)

	c.MapProgram(core.ParseProgram(helloProgram, nil))

	res, err := c.Run()
	if err != nil {
		atexit.Fatalf("hello: %v", err)
	}

	fmt.Printf("status=%s steps=%d cycles=%.0f\n",
		res.Status, res.Steps, float64(engine.CurrentTime()*1e9))
	fmt.Println("retired at", recorder.Positions)

	atexit.Exit(0)
}
