package board

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuwacunu/tsiemene/internal/camahjucunu/decode"
	"github.com/cuwacunu/tsiemene/internal/tsiemene"
)

func validCircuit() decode.CircuitDecl {
	return decode.CircuitDecl{
		Name:          "c1",
		InvokeName:    "run",
		InvokePayload: `"go"`,
		Instances: []decode.InstanceDecl{
			{Alias: "a", TSIType: "tsi.source.x"},
			{Alias: "b", TSIType: "tsi.sink.y"},
		},
		Hops: []decode.HopDecl{
			{
				From: decode.Endpoint{Instance: "a", Directive: "payload", Kind: "tensor"},
				To:   decode.Endpoint{Instance: "b", Directive: "payload", Kind: "tensor"},
			},
		},
	}
}

func Test_ValidateCircuitDecl_accepts(t *testing.T) {
	assert.NoError(t, ValidateCircuitDecl(validCircuit()))
}

func Test_ValidateCircuitDecl_rejectsOrphanInstance(t *testing.T) {
	c := validCircuit()
	c.Instances = append(c.Instances, decode.InstanceDecl{Alias: "orphan", TSIType: "tsi.sink.z"})

	err := ValidateCircuitDecl(c)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "orphan")
	}
}

func Test_ValidateCircuitDecl_rejectsNonSinkTerminal(t *testing.T) {
	c := validCircuit()
	c.Instances[1].TSIType = "tsi.transform.y"

	err := ValidateCircuitDecl(c)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "sink")
	}
}

func Test_ValidateCircuitDecl_rejectsCycle(t *testing.T) {
	// a is the sole root; b and c form a cycle reachable from it.
	c := decode.CircuitDecl{
		Name:          "cyc",
		InvokeName:    "run",
		InvokePayload: `"go"`,
		Instances: []decode.InstanceDecl{
			{Alias: "a", TSIType: "tsi.source.x"},
			{Alias: "b", TSIType: "tsi.transform.y"},
			{Alias: "c", TSIType: "tsi.sink.z"},
		},
		Hops: []decode.HopDecl{
			{
				From: decode.Endpoint{Instance: "a", Directive: "payload", Kind: "tensor"},
				To:   decode.Endpoint{Instance: "b", Directive: "payload", Kind: "tensor"},
			},
			{
				From: decode.Endpoint{Instance: "b", Directive: "payload", Kind: "tensor"},
				To:   decode.Endpoint{Instance: "c", Directive: "payload", Kind: "tensor"},
			},
			{
				From: decode.Endpoint{Instance: "c", Directive: "payload", Kind: "tensor"},
				To:   decode.Endpoint{Instance: "b", Directive: "payload", Kind: "tensor"},
			},
		},
	}

	err := ValidateCircuitDecl(c)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "cycle detected")
	}
}

func Test_ValidateCircuitDecl_rejectsDuplicateAlias(t *testing.T) {
	c := validCircuit()
	c.Instances = append(c.Instances, decode.InstanceDecl{Alias: "a", TSIType: "tsi.sink.z"})

	err := ValidateCircuitDecl(c)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "duplicated instance alias")
	}
}

func Test_ValidateBoardInstruction_rejectsDuplicateCircuitName(t *testing.T) {
	board := &decode.BoardInstruction{Circuits: []decode.CircuitDecl{validCircuit(), validCircuit()}}

	err := ValidateBoardInstruction(board)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "duplicated circuit name")
	}
}

func Test_ResolveHopDecl(t *testing.T) {
	hop := decode.HopDecl{
		From: decode.Endpoint{Instance: "a", Directive: "@payload", Kind: ":tensor"},
		To:   decode.Endpoint{Instance: "b", Directive: "loss", Kind: "str"},
	}

	resolved, err := ResolveHopDecl(hop)
	if assert.NoError(t, err) {
		assert.Equal(t, tsiemene.DirectivePayload, resolved.From.Directive)
		assert.Equal(t, tsiemene.KindTensor, resolved.From.Kind)
		assert.Equal(t, tsiemene.DirectiveLoss, resolved.To.Directive)
		assert.Equal(t, tsiemene.KindString, resolved.To.Kind)
	}
}

func Test_ResolveHopDecl_rejectsUnknownDirective(t *testing.T) {
	hop := decode.HopDecl{
		From: decode.Endpoint{Instance: "a", Directive: "bogus", Kind: "tensor"},
		To:   decode.Endpoint{Instance: "b", Directive: "payload", Kind: "tensor"},
	}
	_, err := ResolveHopDecl(hop)
	assert.Error(t, err)
}

func Test_CircuitInvokeSymbol_stripsArgList(t *testing.T) {
	c := validCircuit()
	c.InvokePayload = `go[epochs=10]`
	assert.Equal(t, "go", CircuitInvokeSymbol(c))
}

func Test_CircuitInvokeSymbol_bareSymbol(t *testing.T) {
	c := validCircuit()
	c.InvokePayload = `"go"`
	assert.Equal(t, `"go"`, CircuitInvokeSymbol(c))
}
