package replcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mna/mainer"
	"github.com/peterh/liner"

	"github.com/warplang/warp/lang/diag"
	"github.com/warplang/warp/lang/machine"
)

const historyFileName = ".warp_history"
const prompt = "warp> "

// historyPath is $HOME/.warp_history, or ./.warp_history when HOME is
// unset.
func historyPath() string {
	home, ok := os.LookupEnv("HOME")
	if !ok || home == "" {
		return historyFileName
	}
	return filepath.Join(home, historyFileName)
}

// runREPL runs the interactive loop against one machine.VM that lives for
// the whole session, so declarations from earlier lines remain visible (as
// globals) to later ones.
func (c *Cmd) runREPL(ctx context.Context, stdio mainer.Stdio, useColor bool) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := historyPath()
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	var src []byte // the current line, kept alive for diag.Render's source-line lookup
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

	fmt.Fprintf(stdio.Stdout, "%s %s — Ctrl-D to exit\n", binName, c.BuildVersion)

	for {
		select {
		case <-ctx.Done():
			return c.saveHistory(line, histPath)
		default:
		}

		input, err := line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return c.saveHistory(line, histPath)
			}
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
			return c.saveHistory(line, histPath)
		}
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		src = []byte(input)
		vm.Interpret("<repl>", src)
	}
}

func (c *Cmd) saveHistory(line *liner.State, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return nil // a broken history file is not worth failing the session over
	}
	defer f.Close()
	_, err = line.WriteHistory(f)
	return err
}
