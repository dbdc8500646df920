package replcmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/warplang/warp/lang/compiler"
	"github.com/warplang/warp/lang/diag"
	"github.com/warplang/warp/lang/machine"
	"github.com/warplang/warp/lang/value"
)

// runFile reads path whole and interprets it once against a fresh VM.
// Diagnostics from both phases are rendered to stderr; a compile or
// runtime error in the source maps to mainer.Failure, not
// mainer.InvalidArgs, since the arguments themselves were fine.
func (c *Cmd) runFile(ctx context.Context, stdio mainer.Stdio, path string, useColor bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
		return err
	}

	vm := machine.New(machine.Config{
		Stdout: stdio.Stdout,
		CompileDiagSink: func(d diag.Diagnostic) {
			diag.Render(stdio.Stderr, src, d, useColor)
		},
		RuntimeDiagSink: func(msg string) {
			fmt.Fprintf(stdio.Stderr, "%s: runtime error: %s\n", binName, msg)
		},
	})
	defer vm.Destroy()

	if c.Disasm {
		var diags diag.List
		fn := compiler.Compile(path, src, vm, &diags)
		if diags.HasErrors() {
			for _, d := range diags {
				diag.Render(stdio.Stderr, src, d, useColor)
			}
			return fmt.Errorf("%s: compilation failed", path)
		}
		fmt.Fprint(stdio.Stdout, compiler.Disassemble(&fn.Chunk, path))
		for _, cst := range fn.Chunk.Constants {
			if cst.IsObjKind(value.KindObjFunction) {
				inner := value.AsFunction(cst)
				fmt.Fprint(stdio.Stdout, compiler.Disassemble(&inner.Chunk, inner.Name.Chars))
			}
		}
	}

	switch vm.Interpret(path, src) {
	case machine.OK:
		return nil
	case machine.CompileError:
		return fmt.Errorf("%s: compilation failed", path)
	default:
		return fmt.Errorf("%s: runtime error", path)
	}
}
