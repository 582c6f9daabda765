package decode

// Endpoint is one side of a hop declaration as written in the DSL:
// `alias@directive:kind`, before directive/kind are resolved to their
// canonical enums (that resolution happens in internal/tsiemene/board,
// which consumes this decoded, still-textual form).
type Endpoint struct {
	Instance  string
	Directive string
	Kind      string
}

// InstanceDecl is one `alias = tsi_type` line.
type InstanceDecl struct {
	Alias   string
	TSIType string
}

// HopDecl is one `from -> to` line.
type HopDecl struct {
	From Endpoint
	To   Endpoint
}

// CircuitDecl is one decoded `circuit <name> = ...` block.
type CircuitDecl struct {
	Name          string
	InvokeName    string
	InvokePayload string
	Instances     []InstanceDecl
	Hops          []HopDecl
}

// BoardInstruction is the fully decoded, not-yet-validated board DSL
// document: a sequence of circuits.
type BoardInstruction struct {
	Circuits []CircuitDecl
}
