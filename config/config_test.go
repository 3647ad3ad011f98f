package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/glyphvm/config"
	"github.com/sarchlab/glyphvm/core"
)

var _ = Describe("Config", func() {
	var dir string

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
		return path
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("should provide defaults", func() {
		cfg := config.Default()

		Expect(cfg.Program).To(Equal("program"))
		Expect(cfg.Debug).To(BeFalse())
		Expect(cfg.Freq()).To(Equal(1 * sim.GHz))
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should load YAML", func() {
		path := write("run.yaml", `
program: hello.glyph
debug: true
max_steps: 500
engine:
  enabled: true
  freq_mhz: 2
isa:
  name: ascii
  symbols:
    ADD: "+"
    EXIT: "!"
`)

		cfg, err := config.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Program).To(Equal("hello.glyph"))
		Expect(cfg.Debug).To(BeTrue())
		Expect(cfg.MaxSteps).To(Equal(uint64(500)))
		Expect(cfg.Engine.Enabled).To(BeTrue())
		Expect(cfg.Freq()).To(Equal(2 * sim.MHz))

		isa, err := cfg.BuildISA()
		Expect(err).NotTo(HaveOccurred())
		Expect(isa.Name()).To(Equal("ascii"))
		Expect(isa.Decode("+").Opcode).To(Equal(core.OpAdd))
		Expect(isa.Decode("!").Opcode).To(Equal(core.OpExit))
	})

	It("should load TOML", func() {
		path := write("run.toml", `
program = "prog.txt"
max_steps = 10

[engine]
enabled = false

[isa.symbols]
DUP = "d"
`)

		cfg, err := config.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Program).To(Equal("prog.txt"))
		Expect(cfg.MaxSteps).To(Equal(uint64(10)))
		Expect(cfg.Engine.FreqMHz).To(Equal(1000.0))

		isa, err := cfg.BuildISA()
		Expect(err).NotTo(HaveOccurred())
		Expect(isa.Decode("d").Opcode).To(Equal(core.OpDup))
	})

	It("should reject unknown formats", func() {
		path := write("run.json", `{}`)

		_, err := config.Load(path)
		Expect(err).To(MatchError(ContainSubstring("unsupported config format")))
	})

	It("should reject malformed files", func() {
		path := write("run.yaml", "debug: [")

		_, err := config.Load(path)
		Expect(err).To(MatchError(ContainSubstring("parse error")))
	})

	It("should reject ambiguous symbols", func() {
		path := write("run.yml", `
isa:
  symbols:
    ADD: "x"
    SUB: "x"
`)

		_, err := config.Load(path)
		Expect(err).To(MatchError(ContainSubstring("invalid config")))
	})

	It("should reject a non-positive engine frequency", func() {
		path := write("run.toml", `
[engine]
enabled = true
freq_mhz = 0
`)

		_, err := config.Load(path)
		Expect(err).To(MatchError(ContainSubstring("frequency")))
	})

	It("should fail on a missing file", func() {
		_, err := config.Load(filepath.Join(dir, "missing.yaml"))
		Expect(err).To(MatchError(ContainSubstring("cannot read")))
	})

	It("should configure a builder", func() {
		cfg := config.Default()
		cfg.MaxSteps = 3

		in := cfg.Apply(core.NewBuilder()).BuildInterpreter()
		in.Load(core.ParseProgram("🖋x 🏀 💰x", nil))

		_, err := in.Run()
		Expect(err).To(MatchError(core.ErrStepLimit))
		Expect(in.Steps()).To(Equal(uint64(3)))
	})
})
