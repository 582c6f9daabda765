// Package version contains information on the current version of the program.
// It is split from the main program for easy use.
package version

// Engine is the string representing the current version of the tsiemene
// engine (the iinuji widget/layout/render/event stack and camahjucunu
// decoder/renderings DSL).
const Engine = "0.1.0"

// Server is the string representing the current version of the tsiserver
// control plane API.
const Server = "0.1.0"
