package ir

// Instruction is one IR operation: an opcode plus its input variables,
// output variables, and "inner output" variables — block-local bindings
// such as a subroutine's declared parameters or a catch clause's bound
// exception — together with positional index and per-instruction flags.
type Instruction struct {
	Opcode       Opcode
	Index        int
	Inputs       []Variable
	Outputs      []Variable
	InnerOutputs []Variable

	// IsGuarded instructions have their outputs forced to ⊤ regardless of
	// what the opcode's ordinary contract would compute (property and
	// element access opcodes; see Dispatcher).
	IsGuarded bool

	// Literal carries an opcode-specific operand that isn't itself a
	// variable: the string for loadString's optional custom name, the
	// property/method name for getProperty/setProperty/callMethod, the
	// case-match value is left to the IR's own encoding and is out of
	// scope here. nil when the opcode has no such operand.
	Literal any

	// Aux carries an opcode-specific structured payload that doesn't fit
	// the Inputs/Outputs/Literal shape: a Wasm descriptor (block types,
	// global mutability, and similar), a subroutine's declared parameter
	// list and kind, a destructuring pattern's named slots. nil when
	// unused.
	Aux any
}

// New constructs an Instruction with the given opcode and index; inputs,
// outputs, and inner outputs default to nil and are filled in by the
// caller (tests and cmd/irtrace build streams this way; production use
// is expected to come from the fuzzer's own lifter).
func New(op Opcode, index int) Instruction {
	return Instruction{Opcode: op, Index: index}
}

func (i Instruction) Input(n int) Variable {
	if n < 0 || n >= len(i.Inputs) {
		return InvalidVariable
	}
	return i.Inputs[n]
}

func (i Instruction) Output(n int) Variable {
	if n < 0 || n >= len(i.Outputs) {
		return InvalidVariable
	}
	return i.Outputs[n]
}

func (i Instruction) InnerOutput(n int) Variable {
	if n < 0 || n >= len(i.InnerOutputs) {
		return InvalidVariable
	}
	return i.InnerOutputs[n]
}

// NumOutputs/NumInnerOutputs let the dispatcher assert the output-count
// contract of an opcode before writing types: an unexpected number of
// outputs for the opcode is a fatal fault, not a recoverable mismatch.
func (i Instruction) NumOutputs() int      { return len(i.Outputs) }
func (i Instruction) NumInnerOutputs() int { return len(i.InnerOutputs) }
