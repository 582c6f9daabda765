package decode

import "github.com/cuwacunu/tsiemene/internal/camahjucunu/ast"

// boardGrammarSource is the embedded BNF document for the board DSL surface
// (§6 "DSL surface (board instruction, bit-exact)"). It is parsed once by
// NewBoardDecoder and logged at debug level so a grammar that fails to load
// is diagnosable without a separate dump flag.
const boardGrammarSource = `
instruction ::= circuit { circuit }

circuit ::= circuit_header { instance_decl } { hop_decl } circuit_invoke

circuit_header ::= "circuit" circuit_name "="
circuit_name   ::= /[A-Za-z_][A-Za-z0-9_.]*/

instance_decl  ::= instance_alias "=" tsi_type
instance_alias ::= /[A-Za-z_][A-Za-z0-9_.]*/
tsi_type       ::= /[A-Za-z_][A-Za-z0-9_.]*/

hop_decl      ::= endpoint_from "->" endpoint_to
endpoint_from ::= endpoint
endpoint_to   ::= endpoint
endpoint      ::= /[A-Za-z_][A-Za-z0-9_.]*/ "@" /@?[A-Za-z]+/ ":" /:?[A-Za-z]+/

circuit_invoke  ::= invoke_name "(" invoke_payload ")" ";"
invoke_name     ::= /[A-Za-z_][A-Za-z0-9_.]*/
invoke_payload  ::= /"(?:[^"\\]|\\.)*"/
`

// Hash-production-site constants the board decoder uses for structured,
// hash-based child lookup. Every rule here has exactly one alternative, so
// each constant is HashProductionSite(name, 0).
var (
	hashInstruction   = ast.HashProductionSite("instruction", 0)
	hashCircuit       = ast.HashProductionSite("circuit", 0)
	hashCircuitHeader = ast.HashProductionSite("circuit_header", 0)
	hashCircuitName   = ast.HashProductionSite("circuit_name", 0)
	hashInstanceDecl  = ast.HashProductionSite("instance_decl", 0)
	hashInstanceAlias = ast.HashProductionSite("instance_alias", 0)
	hashTSIType       = ast.HashProductionSite("tsi_type", 0)
	hashHopDecl       = ast.HashProductionSite("hop_decl", 0)
	hashEndpointFrom  = ast.HashProductionSite("endpoint_from", 0)
	hashEndpointTo    = ast.HashProductionSite("endpoint_to", 0)
	hashCircuitInvoke = ast.HashProductionSite("circuit_invoke", 0)
	hashInvokeName    = ast.HashProductionSite("invoke_name", 0)
	hashInvokePayload = ast.HashProductionSite("invoke_payload", 0)
)
