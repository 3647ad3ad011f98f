package core

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Program", func() {
	Context("decoding tokens", func() {
		isa := DefaultISA()

		DescribeTable("classifies by leading symbol",
			func(raw string, kind Kind, op Opcode) {
				t := isa.Decode(raw)
				Expect(t.Kind).To(Equal(kind))
				Expect(t.Opcode).To(Equal(op))
				Expect(t.Raw).To(Equal(raw))
			},
			Entry("add", "🍡", KindOpcode, OpAdd),
			Entry("stack jump with variation selector", "⛰️", KindOpcode, OpStackJump),
			Entry("end if", "😐", KindEndIf, OpEndIf),
			Entry("label definition", "🖋loop", KindLabelDef, OpLabel),
			Entry("label reference", "💰loop", KindLabelRef, OpUnknown),
			Entry("selector", "🥈", KindSelector, OpUnknown),
			Entry("terminator", "✋", KindTerminator, OpUnknown),
			Entry("digit", "7", KindDigit, OpUnknown),
			Entry("unknown", "hello", KindUnknown, OpUnknown),
			Entry("empty", "", KindUnknown, OpUnknown),
		)

		It("should take the digit from the first character only", func() {
			t := isa.Decode("42")
			Expect(t.Kind).To(Equal(KindDigit))
			Expect(t.Digit).To(Equal(int64(4)))
		})

		It("should split labels off their symbol", func() {
			Expect(isa.Decode("🖋end").Label).To(Equal("end"))
			Expect(isa.Decode("💰end").Label).To(Equal("end"))
		})

		It("should tell selectors apart", func() {
			Expect(isa.Decode("🥇").Acc).To(Equal(AccA))
			Expect(isa.Decode("🥈").Acc).To(Equal(AccB))
		})
	})

	Context("parsing", func() {
		It("should split on whitespace and prepend the placeholder", func() {
			p := ParseProgram("🚛 🥇\n1\t2  ✋\n\n⌛\n", nil)

			Expect(p.Len()).To(Equal(7))
			Expect(p.Tokens[0].Raw).To(Equal(Placeholder))
			Expect(p.Tokens[1].Opcode).To(Equal(OpLoad))
			Expect(p.Tokens[6].Opcode).To(Equal(OpExit))
		})

		It("should index the first definition of each label", func() {
			p := ParseProgram("🖋a ⌛ 🖋b 🖋a", nil)

			pos, ok := p.ResolveLabel("a")
			Expect(ok).To(BeTrue())
			Expect(pos).To(Equal(1))

			pos, ok = p.ResolveLabel("b")
			Expect(ok).To(BeTrue())
			Expect(pos).To(Equal(3))

			_, ok = p.ResolveLabel("c")
			Expect(ok).To(BeFalse())
			Expect(p.Labels()).To(HaveLen(2))
		})

		It("should report positions outside the program", func() {
			p := ParseProgram("⌛", nil)

			_, ok := p.At(2)
			Expect(ok).To(BeFalse())
			_, ok = p.At(-1)
			Expect(ok).To(BeFalse())
		})

		It("should load a program file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "program")
			Expect(os.WriteFile(path, []byte("🚛 🥇 1 ✋ ⌛"), 0o644)).To(Succeed())

			p, err := LoadProgramFile(path, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Len()).To(Equal(6))
			Expect(p.ISA().Name()).To(Equal("Glyph Default ISA"))
		})

		It("should list one line per position", func() {
			var buf bytes.Buffer
			PrintProgram(&buf, ParseProgram("🖋a 🍡 zz", nil))

			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			Expect(lines).To(HaveLen(4))
			Expect(lines[1]).To(ContainSubstring("LABEL"))
			Expect(lines[2]).To(ContainSubstring("ADD"))
			Expect(lines[3]).To(ContainSubstring("zz"))
		})

		It("should fail on a missing file", func() {
			_, err := LoadProgramFile(filepath.Join(GinkgoT().TempDir(), "nope"), nil)
			Expect(err).To(MatchError(ContainSubstring("failed to read program")))
		})
	})

	Context("building an ISA", func() {
		It("should apply overrides", func() {
			isa, err := BuildISA("ascii", map[string]string{
				"ADD":      "+",
				SymSelectA: "a",
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(isa.Decode("+").Opcode).To(Equal(OpAdd))
			Expect(isa.Decode("a").Acc).To(Equal(AccA))
			Expect(isa.Decode("🍡").Kind).To(Equal(KindUnknown))

			sym, ok := isa.Symbol(OpAdd)
			Expect(ok).To(BeTrue())
			Expect(sym).To(Equal('+'))
		})

		It("should reject duplicate symbols", func() {
			_, err := BuildISA("dup", map[string]string{"ADD": "🔪"})
			Expect(err).To(MatchError(ContainSubstring("used by both")))
		})

		It("should reject digit symbols", func() {
			_, err := BuildISA("digit", map[string]string{"EXIT": "0"})
			Expect(err).To(MatchError(ContainSubstring("digit")))
		})

		It("should reject unknown mnemonics", func() {
			_, err := BuildISA("bad", map[string]string{"JMP": "j"})
			Expect(err).To(MatchError(ContainSubstring("unknown mnemonic")))
		})

		It("should reject empty symbols", func() {
			_, err := BuildISA("empty", map[string]string{"EXIT": ""})
			Expect(err).To(HaveOccurred())
		})
	})
})
