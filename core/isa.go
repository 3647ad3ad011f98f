package core

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Operand symbol mnemonics, used next to the opcode mnemonics when an ISA is
// described by name.
const (
	SymLabelRef   = "LABEL_REF"
	SymSelectA    = "SELECT_A"
	SymSelectB    = "SELECT_B"
	SymTerminator = "TERMINATOR"
)

// ISA maps leading symbols to instruction roles.
type ISA struct {
	// name of the ISA.
	isaName string

	opcodes    map[rune]Opcode
	labelRef   rune
	selectA    rune
	selectB    rune
	terminator rune
}

// NewISA creates an empty instruction set.
func NewISA(name string) *ISA {
	return &ISA{
		isaName: name,
		opcodes: make(map[rune]Opcode),
	}
}

// Name returns the name of the ISA.
func (isa *ISA) Name() string {
	return isa.isaName
}

func (isa *ISA) registerNewInst(symbol rune, op Opcode) {
	isa.opcodes[symbol] = op
}

var defaultSymbols = map[string]string{
	"LABEL":         "🖋",
	"ADD":           "🍡",
	"DUP":           "🤡",
	"DIV":           "📐",
	"IF_ZERO":       "😲",
	"IF_NOT_ZERO":   "😄",
	"JUMP":          "🏀",
	"LOAD":          "🚛",
	"MOD":           "📬",
	"MUL":           "⭐",
	"POP_TO_ACC":    "🍿",
	"DISCARD":       "📤",
	"PRINT_CHAR":    "🎤",
	"PUSH_FROM_ACC": "📥",
	"SUB":           "🔪",
	"XOR":           "🌓",
	"STACK_JUMP":    "⛰",
	"EXIT":          "⌛",
	"END_IF":        "😐",
	SymLabelRef:     "💰",
	SymSelectA:      "🥇",
	SymSelectB:      "🥈",
	SymTerminator:   "✋",
}

// DefaultSymbols returns a copy of the default mnemonic to symbol table.
func DefaultSymbols() map[string]string {
	out := make(map[string]string, len(defaultSymbols))
	for k, v := range defaultSymbols {
		out[k] = v
	}
	return out
}

// DefaultISA returns the emoji instruction set.
func DefaultISA() *ISA {
	isa, err := BuildISA("Glyph Default ISA", nil)
	if err != nil {
		panic(err)
	}
	return isa
}

// BuildISA builds an instruction set from the default symbols with the given
// mnemonic to symbol overrides applied. Only the first rune of a symbol is
// significant. Every symbol must be distinct and must not be a decimal digit.
func BuildISA(name string, overrides map[string]string) (*ISA, error) {
	symbols := DefaultSymbols()
	for k, v := range overrides {
		if _, ok := symbols[k]; !ok {
			return nil, fmt.Errorf("unknown mnemonic %q in ISA %q", k, name)
		}
		symbols[k] = v
	}

	isa := NewISA(name)
	seen := make(map[rune]string, len(symbols))

	mnemonics := make([]string, 0, len(symbols))
	for k := range symbols {
		mnemonics = append(mnemonics, k)
	}
	sort.Strings(mnemonics)

	for _, mnemonic := range mnemonics {
		r, size := utf8.DecodeRuneInString(symbols[mnemonic])
		if size == 0 || r == utf8.RuneError {
			return nil, fmt.Errorf("invalid symbol %q for %s", symbols[mnemonic], mnemonic)
		}
		if r >= '0' && r <= '9' {
			return nil, fmt.Errorf("symbol %q for %s collides with digit tokens", string(r), mnemonic)
		}
		if prev, dup := seen[r]; dup {
			return nil, fmt.Errorf("symbol %q is used by both %s and %s", string(r), prev, mnemonic)
		}
		seen[r] = mnemonic

		switch mnemonic {
		case SymLabelRef:
			isa.labelRef = r
		case SymSelectA:
			isa.selectA = r
		case SymSelectB:
			isa.selectB = r
		case SymTerminator:
			isa.terminator = r
		default:
			op, ok := ParseOpcode(mnemonic)
			if !ok {
				return nil, fmt.Errorf("unknown mnemonic %q", mnemonic)
			}
			isa.registerNewInst(r, op)
		}
	}

	return isa, nil
}

// Symbol returns the leading symbol registered for an opcode.
func (isa *ISA) Symbol(op Opcode) (rune, bool) {
	for r, o := range isa.opcodes {
		if o == op {
			return r, true
		}
	}
	return 0, false
}

// Decode classifies a raw word.
func (isa *ISA) Decode(raw string) Token {
	t := Token{Raw: raw}

	lead, size := utf8.DecodeRuneInString(raw)
	if size == 0 {
		return t
	}
	suffix := raw[size:]

	switch {
	case lead >= '0' && lead <= '9':
		t.Kind = KindDigit
		t.Digit = int64(lead - '0')
	case lead == isa.selectA:
		t.Kind = KindSelector
		t.Acc = AccA
	case lead == isa.selectB:
		t.Kind = KindSelector
		t.Acc = AccB
	case lead == isa.labelRef:
		t.Kind = KindLabelRef
		t.Label = suffix
	case lead == isa.terminator:
		t.Kind = KindTerminator
	default:
		op, ok := isa.opcodes[lead]
		if !ok {
			return t
		}
		t.Opcode = op
		switch op {
		case OpLabel:
			t.Kind = KindLabelDef
			t.Label = suffix
		case OpEndIf:
			t.Kind = KindEndIf
		default:
			t.Kind = KindOpcode
		}
	}

	return t
}
