/*
Tsictl starts an interactive tsiemene control shell.

It optionally loads a board or renderings DSL file at startup, then reads
commands from stdin until QUIT is given or input reaches EOF. For an
explanation of the available commands, type "HELP" once in a session.

Usage:

	tsictl [flags]

The flags are:

	-v, --version
		Give the current version of the tsiemene engine and then exit.

	-f, --file FILE
		Immediately LOAD the given board (.board) or renderings
		(.renderings) file at startup.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading command input, even if
		launched in a tty with stdin and stdout.

	-c, --command COMMANDS
		Immediately run the given shell command(s) at start. Can be
		multiple commands separated by the ";" character.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cuwacunu/tsiemene/internal/tsictl"
	"github.com/cuwacunu/tsiemene/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitRuntimeError indicates an unsuccessful program execution due to a
	// problem encountered while the shell was running.
	ExitRuntimeError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the shell.
	ExitInitError
)

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	loadFile    *string = pflag.StringP("file", "f", "", "A board or renderings DSL file to LOAD at startup")
	forceDirect *bool   = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
	startCmd    *string = pflag.StringP("command", "c", "", "Execute the given shell commands immediately at start and leave the interpreter open")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("tsictl (tsiemene engine v%s)\n", version.Engine)
		return
	}

	var startCommands []string
	if *loadFile != "" {
		startCommands = append(startCommands, "LOAD "+*loadFile)
	}
	if *startCmd != "" {
		startCommands = append(startCommands, strings.Split(*startCmd, ";")...)
	}

	eng, initErr := tsictl.New(os.Stdin, os.Stdout, *forceDirect)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer eng.Close()

	if err := eng.RunUntilQuit(startCommands); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitRuntimeError
		return
	}
}
