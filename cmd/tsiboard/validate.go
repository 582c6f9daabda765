package main

import (
	"fmt"
	"os"

	"github.com/cuwacunu/tsiemene/internal/camahjucunu/decode"
	"github.com/cuwacunu/tsiemene/internal/tsiemene/board"
	"github.com/spf13/cobra"
)

var cmdValidate = &cobra.Command{
	Use:   "validate <file>",
	Short: "validate a board DSL file",
	Long:  `Decode and validate a board DSL file: directive/kind resolution, alias uniqueness, single-root/acyclic/fully-reachable topology, and sink-type terminal instances.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		instr, err := loadBoard(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(1)
		}

		if err := board.ValidateBoardInstruction(instr); err != nil {
			fmt.Fprintf(os.Stderr, "invalid: %s\n", err)
			os.Exit(1)
		}

		fmt.Printf("%s: %d circuit(s) valid\n", args[0], len(instr.Circuits))
	},
}

func loadBoard(path string) (*decode.BoardInstruction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	dec, err := decode.NewBoardDecoder()
	if err != nil {
		return nil, fmt.Errorf("initializing board decoder: %w", err)
	}

	instr, err := dec.Decode(string(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return instr, nil
}
