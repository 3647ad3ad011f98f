package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sarchlab/glyphvm/config"
	"github.com/sarchlab/glyphvm/core"
	"github.com/sarchlab/glyphvm/verify"
)

func main() {
	configPath := flag.String("config", "", "YAML or TOML run configuration")
	maxSteps := flag.Uint64("max-steps", 100000, "step budget for the trial run")
	reportPath := flag.String("o", "", "also save the report to this file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	programPath := cfg.Program
	if flag.NArg() > 0 {
		programPath = flag.Arg(0)
	}

	isa, err := cfg.BuildISA()
	if err != nil {
		log.Fatalf("Failed to build ISA: %v", err)
	}

	program, err := core.LoadProgramFile(programPath, isa)
	if err != nil {
		log.Fatalf("Failed to load program: %v", err)
	}

	report := verify.GenerateReport(program, *maxSteps)
	report.WriteReport(os.Stdout)

	if *reportPath != "" {
		if err := report.SaveReportToFile(*reportPath); err != nil {
			log.Fatalf("Failed to save report: %v", err)
		}
		fmt.Printf("Report saved to %s\n", *reportPath)
	}

	// Exit with error code if the program would fault
	if !report.Passed() {
		os.Exit(1)
	}
}
