package command

import "github.com/cuwacunu/tsiemene/internal/util"

// Verbs lists every canonical command verb the tsictl shell accepts, in
// help-text display order.
var Verbs = []string{"LOAD", "VALIDATE", "RUN", "DISPATCH", "FOCUS", "KEY", "SCREEN", "HELP", "QUIT"}

// HelpText renders the one-line "available commands are ..." summary
// shown by the HELP command and on a parse error.
func HelpText() string {
	return "Available commands are " + util.MakeTextList(append([]string{}, Verbs...)) + "."
}
