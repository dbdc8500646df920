package compiler

// Op is a single bytecode instruction opcode. Every instruction is one byte
// of opcode followed by a fixed, opcode-specific number of operand bytes
// (0, 1, or 2); there is no variable-length encoding.
type Op byte

const (
	OpConst Op = iota
	OpNil
	OpTrue
	OpFalse
	OpPop
	OpDup
	OpBlock
	OpDefGlobal
	OpGetGlobal
	OpSetGlobal
	OpGetLocal
	OpSetLocal
	OpNeg
	OpNot
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpLt
	OpGt
	OpLtEq
	OpGtEq
	OpEq
	OpJump
	OpJumpFalse
	OpLoop
	OpEndLoop
	OpCall
	OpReturn
	OpPrint
)

var opNames = [...]string{
	OpConst: "CONST", OpNil: "NIL", OpTrue: "TRUE", OpFalse: "FALSE",
	OpPop: "POP", OpDup: "DUP", OpBlock: "BLOCK",
	OpDefGlobal: "DEF_GLOB", OpGetGlobal: "GET_GLOB", OpSetGlobal: "SET_GLOB",
	OpGetLocal: "GET_LOCAL", OpSetLocal: "SET_LOCAL",
	OpNeg: "NEG", OpNot: "NOT",
	OpAdd: "ADD", OpSub: "SUB", OpMul: "MUL", OpDiv: "DIV",
	OpLt: "LT", OpGt: "GT", OpLtEq: "LTEQ", OpGtEq: "GTEQ", OpEq: "EQ",
	OpJump: "JMP", OpJumpFalse: "JMP_FALSE", OpLoop: "LOOP", OpEndLoop: "ENDLOOP",
	OpCall: "CALL", OpReturn: "RETURN", OpPrint: "PRINT",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "UNKNOWN"
}

// operandSize gives the number of operand bytes following each opcode.
var operandSize = [...]int{
	OpConst: 1, OpNil: 0, OpTrue: 0, OpFalse: 0, OpPop: 0, OpDup: 0,
	OpBlock: 2, OpDefGlobal: 1, OpGetGlobal: 1, OpSetGlobal: 1,
	OpGetLocal: 1, OpSetLocal: 1,
	OpNeg: 0, OpNot: 0, OpAdd: 0, OpSub: 0, OpMul: 0, OpDiv: 0,
	OpLt: 0, OpGt: 0, OpLtEq: 0, OpGtEq: 0, OpEq: 0,
	OpJump: 2, OpJumpFalse: 2, OpLoop: 2, OpEndLoop: 2,
	OpCall: 1, OpReturn: 0, OpPrint: 0,
}

// OperandSize reports how many operand bytes follow op in the instruction
// stream, used by the disassembler to step from one instruction to the
// next.
func OperandSize(op Op) int { return operandSize[op] }

// stackEffect gives the net stack-depth delta of every fixed-effect opcode.
// OpBlock and OpCall are excluded: their effect depends on the operand
// (slot count, argument count) and is computed by the compiler directly.
var stackEffect = [...]int{
	OpConst: 1, OpNil: 1, OpTrue: 1, OpFalse: 1, OpPop: -1, OpDup: 1,
	OpDefGlobal: 0, OpGetGlobal: 1, OpSetGlobal: 0,
	OpGetLocal: 1, OpSetLocal: 0,
	OpNeg: 0, OpNot: 0, OpAdd: -1, OpSub: -1, OpMul: -1, OpDiv: -1,
	OpLt: -1, OpGt: -1, OpLtEq: -1, OpGtEq: -1, OpEq: -1,
	OpJump: 0, OpJumpFalse: 0, OpLoop: 0, OpEndLoop: 0,
	OpReturn: 0, OpPrint: 0,
}

// Effect reports the net stack-depth delta of a fixed-effect opcode, for
// callers outside this package; the VM and the disassembler do not call it,
// and the compiler itself uses the unexported table directly.
func Effect(op Op) int { return stackEffect[op] }
