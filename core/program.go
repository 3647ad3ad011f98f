package core

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Placeholder occupies position 0 so that token positions are 1-based.
const Placeholder = "_"

// Program is an immutable, decoded token sequence.
type Program struct {
	Tokens []Token

	isa    *ISA
	labels map[string]int // label identifier -> first definition position
}

// NewProgram decodes already-tokenized words. words[0] is the placeholder
// position and is never executed.
func NewProgram(words []string, isa *ISA) Program {
	if isa == nil {
		isa = DefaultISA()
	}

	p := Program{
		Tokens: make([]Token, len(words)),
		isa:    isa,
		labels: make(map[string]int),
	}

	for i, w := range words {
		t := isa.Decode(w)
		p.Tokens[i] = t
		if t.Kind == KindLabelDef {
			if _, exists := p.labels[t.Label]; !exists {
				p.labels[t.Label] = i
			}
		}
	}

	return p
}

// ParseProgram splits source text on whitespace and prepends the placeholder
// token.
func ParseProgram(src string, isa *ISA) Program {
	words := append([]string{Placeholder}, strings.Fields(src)...)
	return NewProgram(words, isa)
}

// LoadProgramFile reads and parses a program file.
func LoadProgramFile(path string, isa *ISA) (Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Program{}, fmt.Errorf("failed to read program %s: %w", path, err)
	}

	return ParseProgram(string(data), isa), nil
}

// Len returns the number of positions, placeholder included.
func (p Program) Len() int {
	return len(p.Tokens)
}

// ISA returns the instruction set the program was decoded with.
func (p Program) ISA() *ISA {
	return p.isa
}

// At returns the token at pos.
func (p Program) At(pos int) (Token, bool) {
	if pos < 0 || pos >= len(p.Tokens) {
		return Token{}, false
	}
	return p.Tokens[pos], true
}

// ResolveLabel returns the position of the first definition of label.
func (p Program) ResolveLabel(label string) (int, bool) {
	pos, ok := p.labels[label]
	return pos, ok
}

// Labels returns the defined label identifiers and their positions.
func (p Program) Labels() map[string]int {
	out := make(map[string]int, len(p.labels))
	for k, v := range p.labels {
		out[k] = v
	}
	return out
}

// PrintProgram writes one line per token, for debugging loaders.
func PrintProgram(w io.Writer, p Program) {
	for i, t := range p.Tokens {
		fmt.Fprintf(w, "%4d  %-10s %-14s %s\n", i, t.Kind, t.Opcode, t.Raw)
	}
}
