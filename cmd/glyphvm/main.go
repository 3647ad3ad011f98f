// Command glyphvm runs a glyph program file.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/glyphvm/config"
	"github.com/sarchlab/glyphvm/core"
	"github.com/sarchlab/glyphvm/verify"
	"github.com/tebeka/atexit"
)

func main() {
	configPath := flag.String("config", "", "YAML or TOML run configuration")
	debug := flag.Bool("debug", false, "trace dispatch and branches")
	useEngine := flag.Bool("engine", false, "run one dispatch step per cycle on a serial engine")
	maxSteps := flag.Uint64("max-steps", 0, "stop after this many dispatch steps, 0 for no limit")
	lint := flag.Bool("lint", false, "lint the program before running it")
	dumpState := flag.Bool("dump-state", false, "print the machine state when the run stops")
	list := flag.Bool("list", false, "print the decoded program and exit")
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	cfg, err := applyFlags(loadConfig(*configPath), runFlags{
		set:      set,
		debug:    *debug,
		engine:   *useEngine,
		maxSteps: *maxSteps,
		program:  flag.Arg(0),
	})
	if err != nil {
		atexit.Fatalf("glyphvm: %v", err)
	}

	if cfg.Debug {
		handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: core.LevelTrace,
		})
		slog.SetDefault(slog.New(handler))
	}

	isa, err := cfg.BuildISA()
	if err != nil {
		atexit.Fatalf("glyphvm: %v", err)
	}

	program, err := core.LoadProgramFile(cfg.Program, isa)
	if err != nil {
		atexit.Fatalf("glyphvm: %v", err)
	}

	if *list {
		core.PrintProgram(os.Stdout, program)
		atexit.Exit(0)
	}

	if *lint {
		issues := verify.RunLint(program)
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "[%s] %d %q: %s\n", issue.Type, issue.Pos, issue.Token, issue.Message)
		}
		if n := verify.CountFatal(issues); n > 0 {
			atexit.Fatalf("glyphvm: %d fatal lint issues", n)
		}
	}

	out := bufio.NewWriter(os.Stdout)
	atexit.Register(func() {
		out.Flush()
	})

	builder := cfg.Apply(core.NewBuilder()).
		WithOutput(out).
		WithLogger(slog.Default())

	var (
		in  *core.Interpreter
		res core.Result
	)
	if cfg.Engine.Enabled {
		engine := sim.NewSerialEngine()
		c := builder.WithEngine(engine).Build("Core")
		c.MapProgram(program)
		in = c.Interpreter()
		res, err = c.Run()
	} else {
		in = builder.BuildInterpreter()
		in.Load(program)
		res, err = in.Run()
	}

	if *dumpState {
		out.Flush()
		core.PrintState(os.Stderr, in)
	}

	if err != nil {
		out.Flush()
		if cfg.Debug {
			core.LogState(in)
		}
		atexit.Fatalf("glyphvm: %v", err)
	}

	if cfg.Debug {
		core.LogState(in)
		core.Trace("RunFinished",
			"Status", res.Status.String(),
			"Steps", res.Steps,
			"Unknown", res.Unknown,
		)
	}

	atexit.Exit(0)
}

func loadConfig(path string) config.Config {
	if path == "" {
		return config.Default()
	}

	cfg, err := config.Load(path)
	if err != nil {
		atexit.Fatalf("glyphvm: %v", err)
	}

	return cfg
}

// runFlags holds the command line values that override the config file.
type runFlags struct {
	set      map[string]bool
	debug    bool
	engine   bool
	maxSteps uint64
	program  string
}

// applyFlags overrides cfg with the flags given on the command line and
// validates the result.
func applyFlags(cfg config.Config, f runFlags) (config.Config, error) {
	if f.set["debug"] {
		cfg.Debug = f.debug
	}
	if f.set["engine"] {
		cfg.Engine.Enabled = f.engine
	}
	if f.set["max-steps"] {
		cfg.MaxSteps = f.maxSteps
	}
	if f.program != "" {
		cfg.Program = f.program
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid settings: %w", err)
	}

	return cfg, nil
}
