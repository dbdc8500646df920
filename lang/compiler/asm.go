package compiler

import (
	"fmt"
	"strings"

	"github.com/warplang/warp/lang/value"
)

// Disassemble renders chunk's bytecode as a human-readable instruction
// listing, one line per instruction, used by tests and the CLI's --disasm
// flag.
func Disassemble(chunk *value.Chunk, name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s ==\n", name)
	for off := 0; off < len(chunk.Code); {
		off = disassembleInstruction(&sb, chunk, off)
	}
	return sb.String()
}

func disassembleInstruction(sb *strings.Builder, chunk *value.Chunk, off int) int {
	fmt.Fprintf(sb, "%04d ", off)
	if off > 0 && chunk.Lines[off] == chunk.Lines[off-1] {
		fmt.Fprint(sb, "   | ")
	} else {
		fmt.Fprintf(sb, "%4d ", chunk.Lines[off])
	}

	op := Op(chunk.Code[off])
	size := OperandSize(op)
	switch size {
	case 0:
		fmt.Fprintln(sb, op)
	case 1:
		arg := chunk.Code[off+1]
		if op == OpConst || op == OpDefGlobal || op == OpGetGlobal || op == OpSetGlobal {
			fmt.Fprintf(sb, "%-12s %4d '%s'\n", op, arg, chunk.Constants[arg].String())
		} else {
			fmt.Fprintf(sb, "%-12s %4d\n", op, arg)
		}
	case 2:
		lo, hi := chunk.Code[off+1], chunk.Code[off+2]
		arg := int(hi)<<8 | int(lo)
		switch op {
		case OpJump, OpJumpFalse:
			fmt.Fprintf(sb, "%-12s %4d -> %d\n", op, off, off+3+arg)
		case OpLoop, OpEndLoop:
			fmt.Fprintf(sb, "%-12s %4d -> %d\n", op, off, off+3-arg)
		default:
			fmt.Fprintf(sb, "%-12s %4d\n", op, arg)
		}
	}
	return off + 1 + size
}
