package ir

// Opcode identifies the operation an Instruction performs. The set below
// groups opcodes by family in source order; dispatch switches on these
// families rather than on individual values wherever the contract is
// uniform across a family.
type Opcode byte

const (
	OpInvalid Opcode = iota

	// Constant loads.
	OpLoadInteger
	OpLoadFloat
	OpLoadBigInt
	OpLoadString
	OpLoadBoolean
	OpLoadUndefined
	OpLoadNull
	OpLoadThis
	OpLoadArguments
	OpLoadRegExp
	OpLoadNewTarget

	// Property/element access.
	OpGetProperty
	OpGetElement
	OpGetComputedProperty
	OpSetProperty
	OpSetElement
	OpSetComputedProperty
	OpUpdateProperty
	OpDeleteProperty
	OpDeleteComputedProperty

	// Calls.
	OpCallFunction
	OpConstruct
	OpCallMethod
	OpCallComputedMethod

	// Binary / unary / ternary.
	OpBinaryAdd
	OpBinaryArith // -, *, /, %, **
	OpBinaryBitwise
	OpBinaryLogicalAnd
	OpBinaryLogicalOr
	OpBinaryNullish
	OpCompare
	OpTypeOf
	OpInstanceOf
	OpIn
	OpVoid
	OpUnaryNot
	OpUnaryNegate
	OpTernary

	// Destructuring.
	OpDestructArray
	OpDestructObject

	// Control flow / subroutines.
	OpReturn
	OpBeginSubroutine
	OpEndSubroutine
	OpBeginClass
	OpEndClass

	// Object-literal and class member declarations.
	OpBeginObjectLiteral
	OpObjectLiteralAddProperty
	OpObjectLiteralAddMethod
	OpEndObjectLiteral
	OpClassAddProperty
	OpClassAddMethod

	// Loops.
	OpBeginFor
	OpBeginForCondition
	OpBeginForAfterthought
	OpBeginForBody
	OpEndFor
	OpBeginWhile
	OpBeginRepeat
	OpEndLoop

	// Conditionals.
	OpBeginIf
	OpBeginElse
	OpEndIf
	OpBeginSwitch
	OpBeginSwitchCase
	OpBeginSwitchDefaultCase
	OpEndSwitch

	// Exception handling and dynamic-scope blocks (JS-level, distinct from
	// their Wasm namesakes below).
	OpBeginTry
	OpBeginCatch
	OpBeginFinally
	OpEndTryCatch
	OpBeginComputeWith
	OpEndComputeWith

	// Wasm: numeric / reference producers.
	OpWasmConstI32
	OpWasmConstI64
	OpWasmConstF32
	OpWasmConstF64
	OpWasmRefNull
	OpWasmRefFunc

	// Wasm: module structure.
	OpWasmBeginModule
	OpWasmEndModule

	// Wasm: module-scoped declarations.
	OpWasmDefineGlobal
	OpWasmDefineTable
	OpWasmDefineMemory
	OpWasmDefineTag
	OpWasmDefineFunction
	OpWasmImportGlobal
	OpWasmImportTable
	OpWasmImportMemory
	OpWasmImportTag
	OpWasmImportFunction

	// Wasm: type-group definitions.
	OpWasmDefineTypeGroup
	OpWasmDefineSignature
	OpWasmDefineStructType
	OpWasmDefineArrayType
	OpWasmDefineForwardOrSelfReference
	OpWasmResolveForwardReference
	OpWasmEndTypeGroup

	// Wasm: block structure.
	OpWasmBeginBlock
	OpWasmEndBlock
	OpWasmBeginIf
	OpWasmEndIf
	OpWasmBeginLoop
	OpWasmEndLoop
	OpWasmBeginTry
	OpWasmEndTry
	OpWasmBeginTryTable
	OpWasmEndTryTable
	OpWasmBeginCatch
	OpWasmBeginCatchAll
	OpWasmBeginTryDelegate

	// Wasm: calls and misc.
	OpWasmCallFunction
	OpWasmCallIndirect
)

var opcodeNames = map[Opcode]string{
	OpInvalid:                          "invalid",
	OpLoadInteger:                      "loadInteger",
	OpLoadFloat:                        "loadFloat",
	OpLoadBigInt:                       "loadBigInt",
	OpLoadString:                       "loadString",
	OpLoadBoolean:                      "loadBoolean",
	OpLoadUndefined:                    "loadUndefined",
	OpLoadNull:                         "loadNull",
	OpLoadThis:                         "loadThis",
	OpLoadArguments:                    "loadArguments",
	OpLoadRegExp:                       "loadRegExp",
	OpLoadNewTarget:                    "loadNewTarget",
	OpGetProperty:                      "getProperty",
	OpGetElement:                       "getElement",
	OpGetComputedProperty:              "getComputedProperty",
	OpSetProperty:                      "setProperty",
	OpSetElement:                       "setElement",
	OpSetComputedProperty:              "setComputedProperty",
	OpUpdateProperty:                   "updateProperty",
	OpDeleteProperty:                   "deleteProperty",
	OpDeleteComputedProperty:           "deleteComputedProperty",
	OpCallFunction:                     "callFunction",
	OpConstruct:                        "construct",
	OpCallMethod:                       "callMethod",
	OpCallComputedMethod:               "callComputedMethod",
	OpBinaryAdd:                        "binaryAdd",
	OpBinaryArith:                      "binaryArith",
	OpBinaryBitwise:                    "binaryBitwise",
	OpBinaryLogicalAnd:                 "logicalAnd",
	OpBinaryLogicalOr:                  "logicalOr",
	OpBinaryNullish:                    "nullishCoalesce",
	OpCompare:                          "compare",
	OpTypeOf:                           "typeOf",
	OpInstanceOf:                       "instanceOf",
	OpIn:                               "in",
	OpVoid:                             "void",
	OpUnaryNot:                         "unaryNot",
	OpUnaryNegate:                      "unaryNegate",
	OpTernary:                          "ternary",
	OpDestructArray:                    "destructArray",
	OpDestructObject:                   "destructObject",
	OpReturn:                           "return",
	OpBeginSubroutine:                  "beginSubroutine",
	OpEndSubroutine:                    "endSubroutine",
	OpBeginClass:                       "beginClass",
	OpEndClass:                         "endClass",
	OpBeginObjectLiteral:               "beginObjectLiteral",
	OpObjectLiteralAddProperty:         "objectLiteralAddProperty",
	OpObjectLiteralAddMethod:           "objectLiteralAddMethod",
	OpEndObjectLiteral:                 "endObjectLiteral",
	OpClassAddProperty:                 "classAddProperty",
	OpClassAddMethod:                   "classAddMethod",
	OpBeginFor:                         "beginFor",
	OpBeginForCondition:                "beginForCondition",
	OpBeginForAfterthought:             "beginForAfterthought",
	OpBeginForBody:                     "beginForBody",
	OpEndFor:                           "endFor",
	OpBeginWhile:                       "beginWhile",
	OpBeginRepeat:                      "beginRepeat",
	OpEndLoop:                          "endLoop",
	OpBeginIf:                          "beginIf",
	OpBeginElse:                        "beginElse",
	OpEndIf:                            "endIf",
	OpBeginSwitch:                      "beginSwitch",
	OpBeginSwitchCase:                  "beginSwitchCase",
	OpBeginSwitchDefaultCase:           "beginSwitchDefaultCase",
	OpEndSwitch:                        "endSwitch",
	OpBeginTry:                         "beginTry",
	OpBeginCatch:                       "beginCatch",
	OpBeginFinally:                     "beginFinally",
	OpEndTryCatch:                      "endTryCatch",
	OpBeginComputeWith:                 "beginComputeWith",
	OpEndComputeWith:                   "endComputeWith",
	OpWasmBeginModule:                  "wasmBeginModule",
	OpWasmEndModule:                    "wasmEndModule",
	OpWasmConstI32:                     "wasmConstI32",
	OpWasmConstI64:                     "wasmConstI64",
	OpWasmConstF32:                     "wasmConstF32",
	OpWasmConstF64:                     "wasmConstF64",
	OpWasmRefNull:                      "wasmRefNull",
	OpWasmRefFunc:                      "wasmRefFunc",
	OpWasmDefineGlobal:                 "wasmDefineGlobal",
	OpWasmDefineTable:                  "wasmDefineTable",
	OpWasmDefineMemory:                 "wasmDefineMemory",
	OpWasmDefineTag:                    "wasmDefineTag",
	OpWasmDefineFunction:               "wasmDefineFunction",
	OpWasmImportGlobal:                 "wasmImportGlobal",
	OpWasmImportTable:                  "wasmImportTable",
	OpWasmImportMemory:                 "wasmImportMemory",
	OpWasmImportTag:                    "wasmImportTag",
	OpWasmImportFunction:               "wasmImportFunction",
	OpWasmDefineTypeGroup:              "wasmDefineTypeGroup",
	OpWasmDefineSignature:              "wasmDefineSignature",
	OpWasmDefineStructType:             "wasmDefineStructType",
	OpWasmDefineArrayType:              "wasmDefineArrayType",
	OpWasmDefineForwardOrSelfReference: "wasmDefineForwardOrSelfReference",
	OpWasmResolveForwardReference:      "wasmResolveForwardReference",
	OpWasmEndTypeGroup:                 "wasmEndTypeGroup",
	OpWasmBeginBlock:                   "wasmBeginBlock",
	OpWasmEndBlock:                     "wasmEndBlock",
	OpWasmBeginIf:                      "wasmBeginIf",
	OpWasmEndIf:                        "wasmEndIf",
	OpWasmBeginLoop:                    "wasmBeginLoop",
	OpWasmEndLoop:                      "wasmEndLoop",
	OpWasmBeginTry:                     "wasmBeginTry",
	OpWasmEndTry:                       "wasmEndTry",
	OpWasmBeginTryTable:                "wasmBeginTryTable",
	OpWasmEndTryTable:                  "wasmEndTryTable",
	OpWasmBeginCatch:                   "wasmBeginCatch",
	OpWasmBeginCatchAll:                "wasmBeginCatchAll",
	OpWasmBeginTryDelegate:             "wasmBeginTryDelegate",
	OpWasmCallFunction:                 "wasmCallFunction",
	OpWasmCallIndirect:                 "wasmCallIndirect",
}

// String returns the opcode's IR-textual name, or "unknown" for an
// undefined value (mirrors the defensive default of a byte-keyed name
// table over an unbounded input).
func (o Opcode) String() string {
	if n, ok := opcodeNames[o]; ok {
		return n
	}
	return "unknown"
}

// IsWasm reports whether the opcode belongs to the Wasm family. Several
// dispatcher contracts (export-name synthesis, imported-vs-defined
// tracking) key off "are we inside Wasm" rather than the individual
// opcode.
func (o Opcode) IsWasm() bool {
	return o >= OpWasmConstI32
}

var namesToOpcodes = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		m[name] = op
	}
	return m
}()

// ParseOpcode looks up an opcode by its IR-textual name (the inverse of
// String), for callers that build instructions from a textual
// representation rather than a live decoder (internal/irtest's YAML
// scenario fixtures, cmd/irtrace's replay input).
func ParseOpcode(name string) (Opcode, bool) {
	op, ok := namesToOpcodes[name]
	return op, ok
}
