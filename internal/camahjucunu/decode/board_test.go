package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_BoardDecoder_minimalBoard(t *testing.T) {
	assert := assert.New(t)

	d, err := NewBoardDecoder()
	if !assert.NoError(err) {
		return
	}

	instruction := `circuit c1 = a = tsi.source.x; b = tsi.sink.y; a@payload:tensor -> b@payload:tensor; run("go");`

	out, err := d.Decode(instruction)
	if !assert.NoError(err) {
		return
	}
	if !assert.Len(out.Circuits, 1) {
		return
	}

	c := out.Circuits[0]
	assert.Equal("c1", c.Name)
	assert.Equal("run", c.InvokeName)
	assert.Equal(`"go"`, c.InvokePayload)

	if assert.Len(c.Instances, 2) {
		assert.Equal(InstanceDecl{Alias: "a", TSIType: "tsi.source.x"}, c.Instances[0])
		assert.Equal(InstanceDecl{Alias: "b", TSIType: "tsi.sink.y"}, c.Instances[1])
	}

	if assert.Len(c.Hops, 1) {
		assert.Equal(Endpoint{Instance: "a", Directive: "payload", Kind: "tensor"}, c.Hops[0].From)
		assert.Equal(Endpoint{Instance: "b", Directive: "payload", Kind: "tensor"}, c.Hops[0].To)
	}
}

func Test_BoardDecoder_multipleCircuits(t *testing.T) {
	assert := assert.New(t)

	d, err := NewBoardDecoder()
	if !assert.NoError(err) {
		return
	}

	instruction := `
		circuit c1 =
		  a = tsi.source.x
		  b = tsi.sink.y
		  a@payload:tensor -> b@payload:tensor
		  run1("one")

		circuit c2 =
		  p = tsi.source.z
		  q = tsi.sink.w
		  p@loss:str -> q@loss:str
		  run2("two")
	`

	out, err := d.Decode(instruction)
	if !assert.NoError(err) {
		return
	}
	if !assert.Len(out.Circuits, 2) {
		return
	}
	assert.Equal("c1", out.Circuits[0].Name)
	assert.Equal("c2", out.Circuits[1].Name)
}

func Test_ParseDirectiveRef(t *testing.T) {
	assert := assert.New(t)

	for _, tc := range []string{"payload", "@payload"} {
		got, ok := ParseDirectiveRef(tc)
		assert.True(ok)
		assert.Equal(0, int(got)) // DirectivePayload == 0
	}

	_, ok := ParseDirectiveRef("bogus")
	assert.False(ok)
}

func Test_ParseKindRef(t *testing.T) {
	assert := assert.New(t)

	for _, tc := range []string{"tensor", ":tensor"} {
		got, ok := ParseKindRef(tc)
		assert.True(ok)
		assert.Equal(0, int(got)) // KindTensor == 0
	}
	for _, tc := range []string{"str", ":str"} {
		got, ok := ParseKindRef(tc)
		assert.True(ok)
		assert.Equal(1, int(got)) // KindString == 1
	}

	_, ok := ParseKindRef("bogus")
	assert.False(ok)
}

func Test_parseEndpointText_rejectsMalformed(t *testing.T) {
	assert := assert.New(t)

	_, ok := parseEndpointText("noatsign:tensor")
	assert.False(ok)

	_, ok = parseEndpointText("@payload:tensor")
	assert.False(ok)

	_, ok = parseEndpointText("a@payload:")
	assert.False(ok)
}
