package core

// Opcode represents the operation selected by a token's leading symbol.
type Opcode int

const (
	OpUnknown Opcode = iota
	OpLabel          // label definition; no-op under dispatch
	OpAdd
	OpDup
	OpDiv
	OpIfZero
	OpIfNotZero
	OpJump
	OpLoad
	OpMod
	OpMul
	OpPopToAcc
	OpDiscard
	OpPrintChar
	OpPushFromAcc
	OpSub
	OpXor
	OpStackJump
	OpExit
	OpEndIf
)

var opcodeNames = map[Opcode]string{
	OpUnknown:     "UNKNOWN",
	OpLabel:       "LABEL",
	OpAdd:         "ADD",
	OpDup:         "DUP",
	OpDiv:         "DIV",
	OpIfZero:      "IF_ZERO",
	OpIfNotZero:   "IF_NOT_ZERO",
	OpJump:        "JUMP",
	OpLoad:        "LOAD",
	OpMod:         "MOD",
	OpMul:         "MUL",
	OpPopToAcc:    "POP_TO_ACC",
	OpDiscard:     "DISCARD",
	OpPrintChar:   "PRINT_CHAR",
	OpPushFromAcc: "PUSH_FROM_ACC",
	OpSub:         "SUB",
	OpXor:         "XOR",
	OpStackJump:   "STACK_JUMP",
	OpExit:        "EXIT",
	OpEndIf:       "END_IF",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseOpcode looks an opcode up by its mnemonic.
func ParseOpcode(name string) (Opcode, bool) {
	for op, n := range opcodeNames {
		if n == name && op != OpUnknown {
			return op, true
		}
	}
	return OpUnknown, false
}

// isJumpClass reports whether the opcode hands control back to the top-level
// loop when met inside an entered conditional block.
func (o Opcode) isJumpClass() bool {
	return o == OpJump || o == OpStackJump
}

// Kind tags what a token can stand for, decided by its leading symbol.
type Kind int

const (
	KindUnknown Kind = iota
	KindOpcode
	KindLabelDef
	KindEndIf
	KindDigit
	KindSelector
	KindLabelRef
	KindTerminator
)

func (k Kind) String() string {
	switch k {
	case KindOpcode:
		return "Opcode"
	case KindLabelDef:
		return "LabelDef"
	case KindEndIf:
		return "EndIf"
	case KindDigit:
		return "Digit"
	case KindSelector:
		return "Selector"
	case KindLabelRef:
		return "LabelRef"
	case KindTerminator:
		return "Terminator"
	default:
		return "Unknown"
	}
}

// Accumulator names one of the two scalar registers.
type Accumulator int

const (
	NoAccumulator Accumulator = iota
	AccA
	AccB
)

func (a Accumulator) String() string {
	switch a {
	case AccA:
		return "A"
	case AccB:
		return "B"
	default:
		return "?"
	}
}

// Token is a program word decoded once at load time.
type Token struct {
	Raw    string
	Kind   Kind
	Opcode Opcode // OpUnknown unless Kind is Opcode, LabelDef or EndIf
	Digit  int64  // valid when Kind is Digit
	Acc    Accumulator
	Label  string // identifier suffix for LabelDef and LabelRef
}
