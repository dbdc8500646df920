// Package replcmd is warp's command-line front end: argument parsing, file
// reading, and REPL wiring built on top of the embeddable lang/...
// packages. None of this is part of the language core; it is a CLI program
// that embeds machine.VM the way any other host would.
package replcmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mna/mainer"
)

const binName = "warp"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] [<path>]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] [<path>]
       %[1]s -h|--help
       %[1]s -v|--version

With no <path>, %[1]s starts an interactive REPL: each line is compiled
and run against a single persistent VM, so declarations from earlier
lines remain visible as globals to later ones.

With a <path>, %[1]s reads the whole file and interprets it once.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --no-color                Disable ANSI-colored diagnostics, even
                                 when stderr is a terminal.
       --disasm                  With a <path>, print the compiled
                                 bytecode listing before running it.
`, binName)
)

// Cmd is warp's CLI entry point, configured by mainer.Parser from os.Args.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`
	NoColor bool `flag:"no-color"`
	Disasm  bool `flag:"disasm"`

	args []string
}

func (c *Cmd) SetArgs(args []string) { c.args = args }

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) > 1 {
		return errors.New("at most one <path> argument is accepted")
	}
	return nil
}

// Main parses args and dispatches to the REPL or the file runner: parse
// flags, handle -h/-v early, then hand off to a context cancelled on
// SIGINT.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	useColor := !c.NoColor && isatty.IsTerminal(os.Stderr.Fd())

	var err error
	if len(c.args) == 1 {
		err = c.runFile(ctx, stdio, c.args[0], useColor)
	} else {
		err = c.runREPL(ctx, stdio, useColor)
	}
	if err != nil {
		return mainer.Failure
	}
	return mainer.Success
}
