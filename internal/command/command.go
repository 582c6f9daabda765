// Package command defines tsictl shell command data types and handles
// parsing of commands from input sources (§A.5).
package command

// Command is a valid command received from the tsictl interactive shell.
type Command struct {
	// Verb is the canonical name of the command being invoked, such as
	// "LOAD", "VALIDATE", "RUN", "DISPATCH", "FOCUS", or "QUIT". Some verbs
	// have shorthand forms typed differently (e.g. "Q" for "QUIT"), and for
	// all those cases parsing resolves to a Command with the canonical
	// Verb.
	Verb string

	// Target is the command's primary argument, for instance the file path
	// for LOAD, the event name for DISPATCH, or "NEXT"/"PREV" for FOCUS.
	Target string

	// Payload is the secondary argument, for instance the literal value
	// dispatched alongside a DISPATCH event name.
	Payload string
}
