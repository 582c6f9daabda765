package decode

import "github.com/cuwacunu/tsiemene/internal/camahjucunu/ast"

// renderingsGrammarSource is the embedded BNF document for the renderings
// DSL surface (§6 "DSL surface (renderings instruction, bit-exact)"):
// screens containing panels and events, panels containing figures, each
// carrying the `__key`/`__coords`/`__shape`/... typed option vocabulary.
//
// Keyword/enum tokens are declared ahead of the generic identifier rules so
// that lexer tie-breaks (GNU-lex "longest match, first-registered wins")
// favor the keyword reading: a screen/panel/figure/event is not expected to
// be named exactly `_label`, `on`, `_update`, and so on — the same
// reservation the board grammar makes implicitly for `payload`/`loss`/
// `meta`/`tensor`/`str`.
const renderingsGrammarSource = `
renderings ::= screen { screen }

screen         ::= screen_header { panel } { event }
screen_header  ::= "screen" screen_name "{" { screen_opt } "}"
screen_opt     ::= key_opt | border_opt | text_color_opt | back_color_opt | line_color_opt | thickness_opt

panel          ::= panel_header { figure }
panel_header   ::= "panel" panel_name "{" { panel_opt } "}"
panel_opt      ::= coords_opt | shape_opt | z_opt | border_opt | title_opt | text_color_opt | back_color_opt | line_color_opt | thickness_opt

figure         ::= figure_header
figure_header  ::= "figure" figure_name figure_kind "{" { figure_opt } "}"
figure_opt     ::= type_opt | coords_opt | shape_opt | border_opt | title_opt | text_color_opt | back_color_opt | line_color_opt | value_opt | capacity_opt | legend_opt | triggers_opt

event          ::= event_header
event_header   ::= "event" event_name event_kind "{" { event_opt } "}"
event_opt      ::= label_opt | color_opt | form_opt

key_opt        ::= "__key" key_token
border_opt     ::= "__border" bool_token
text_color_opt ::= "__text_color" color_token
back_color_opt ::= "__back_color" color_token
line_color_opt ::= "__line_color" color_token
thickness_opt  ::= "__thickness" int_token
coords_opt     ::= "__coords" coord_pair
shape_opt      ::= "__shape" coord_pair
z_opt          ::= "__z" int_token
title_opt      ::= "__title" string_or_empty
type_opt       ::= "__type" token_or_empty
value_opt      ::= "__value" string_or_empty
capacity_opt   ::= "__capacity" int_or_empty
legend_opt     ::= "__legend" string_or_empty
triggers_opt   ::= "__triggers" "[" trigger_list "]"
label_opt      ::= "__label" string_or_empty
color_opt      ::= "__color" color_token
form_opt       ::= "__form" form_binding { "," form_binding }

trigger_list   ::= trigger_name { "," trigger_name }
form_binding   ::= local_name "=" data_path

figure_kind    ::= "_label" | "_input_box" | "_buffer" | "_text_editor" | "_horizontal_plot"
event_kind     ::= "_update" | "_action"

key_token       ::= /F\+?[0-9]+/
bool_token      ::= /on|off|true|false/
color_token     ::= /<empty>|#[0-9A-Fa-f]{6}|[A-Za-z0-9_-]+/
coord_pair      ::= /-?[0-9]+(\.[0-9]+)?,-?[0-9]+(\.[0-9]+)?/
int_token       ::= /-?[0-9]+/
int_or_empty    ::= /<empty>|[0-9]+/
token_or_empty  ::= /<empty>|[A-Za-z0-9_]+/
string_lit      ::= /"(?:[^"\\]|\\.)*"/
string_or_empty ::= /<empty>|"(?:[^"\\]|\\.)*"/
data_path       ::= /\.[A-Za-z0-9_.]+/

screen_name  ::= /[A-Za-z_][A-Za-z0-9_]*/
panel_name   ::= /[A-Za-z_][A-Za-z0-9_]*/
figure_name  ::= /[A-Za-z_][A-Za-z0-9_]*/
event_name   ::= /[A-Za-z_][A-Za-z0-9_]*/
trigger_name ::= /[A-Za-z_][A-Za-z0-9_]*/
local_name   ::= /[A-Za-z_][A-Za-z0-9_]*/
`

var (
	hashRenderings   = ast.HashProductionSite("renderings", 0)
	hashScreen       = ast.HashProductionSite("screen", 0)
	hashScreenHeader = ast.HashProductionSite("screen_header", 0)
	hashScreenName   = ast.HashProductionSite("screen_name", 0)
	hashPanel        = ast.HashProductionSite("panel", 0)
	hashPanelHeader  = ast.HashProductionSite("panel_header", 0)
	hashPanelName    = ast.HashProductionSite("panel_name", 0)
	hashFigure       = ast.HashProductionSite("figure", 0)
	hashFigureHeader = ast.HashProductionSite("figure_header", 0)
	hashFigureName   = ast.HashProductionSite("figure_name", 0)
	hashFigureKind0  = ast.HashProductionSite("figure_kind", 0)
	hashFigureKind1  = ast.HashProductionSite("figure_kind", 1)
	hashFigureKind2  = ast.HashProductionSite("figure_kind", 2)
	hashFigureKind3  = ast.HashProductionSite("figure_kind", 3)
	hashFigureKind4  = ast.HashProductionSite("figure_kind", 4)
	hashEvent        = ast.HashProductionSite("event", 0)
	hashEventHeader  = ast.HashProductionSite("event_header", 0)
	hashEventName    = ast.HashProductionSite("event_name", 0)
	hashEventKind0   = ast.HashProductionSite("event_kind", 0)
	hashEventKind1   = ast.HashProductionSite("event_kind", 1)

	hashKeyOpt       = ast.HashProductionSite("key_opt", 0)
	hashBorderOpt    = ast.HashProductionSite("border_opt", 0)
	hashTextColorOpt = ast.HashProductionSite("text_color_opt", 0)
	hashBackColorOpt = ast.HashProductionSite("back_color_opt", 0)
	hashLineColorOpt = ast.HashProductionSite("line_color_opt", 0)
	hashThicknessOpt = ast.HashProductionSite("thickness_opt", 0)
	hashCoordsOpt    = ast.HashProductionSite("coords_opt", 0)
	hashShapeOpt     = ast.HashProductionSite("shape_opt", 0)
	hashZOpt         = ast.HashProductionSite("z_opt", 0)
	hashTitleOpt     = ast.HashProductionSite("title_opt", 0)
	hashTypeOpt      = ast.HashProductionSite("type_opt", 0)
	hashValueOpt     = ast.HashProductionSite("value_opt", 0)
	hashCapacityOpt  = ast.HashProductionSite("capacity_opt", 0)
	hashLegendOpt    = ast.HashProductionSite("legend_opt", 0)
	hashTriggersOpt  = ast.HashProductionSite("triggers_opt", 0)
	hashLabelOpt     = ast.HashProductionSite("label_opt", 0)
	hashColorOpt     = ast.HashProductionSite("color_opt", 0)
	hashFormOpt      = ast.HashProductionSite("form_opt", 0)

	hashTriggerList = ast.HashProductionSite("trigger_list", 0)
	hashFormBinding = ast.HashProductionSite("form_binding", 0)
)

// figureKindHashes/eventKindHashes map each literal alternative's hash to its
// raw text, since figure_kind/event_kind have one alternative per keyword and
// the matched alternative index is the only way to recover which one fired
// from a hash-based lookup (the TerminalNode under it carries the same text,
// but checking alt-hash first avoids a string compare on the hot path).
var figureKindHashes = map[uint64]string{
	hashFigureKind0: "_label",
	hashFigureKind1: "_input_box",
	hashFigureKind2: "_buffer",
	hashFigureKind3: "_text_editor",
	hashFigureKind4: "_horizontal_plot",
}

var eventKindHashes = map[uint64]string{
	hashEventKind0: "_update",
	hashEventKind1: "_action",
}
