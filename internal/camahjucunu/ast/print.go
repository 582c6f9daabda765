package ast

import (
	"fmt"
	"strings"
)

const (
	treeLevelEmpty               = "        "
	treeLevelOngoing             = "  |     "
	treeLevelPrefix              = "  |%s: "
	treeLevelPrefixLast          = `  \%s: `
	treeLevelPrefixNamePadChar   = '-'
	treeLevelPrefixNamePadAmount = 3
)

func makeTreeLevelPrefix(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefix, msg)
}

func makeTreeLevelPrefixLast(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefixLast, msg)
}

// leveledStr renders n and its subtree as a line-per-node tree, the same
// shape regardless of node kind, so two ASTs built from equivalent sources
// compare equal by String() even if their Go values differ in layout.
func leveledStr(n Node, firstPrefix, contPrefix string) string {
	var sb strings.Builder

	sb.WriteString(firstPrefix)

	var children []Node
	switch t := n.(type) {
	case *RootNode:
		sb.WriteString(fmt.Sprintf("(ROOT %s)", t.LHSInstruction))
		children = t.Children
	case *IntermediaryNode:
		sb.WriteString(fmt.Sprintf("( %s #%d )", t.NonTerminal, t.Alternative))
		children = t.Children
	case *TerminalNode:
		sb.WriteString(fmt.Sprintf("(TERM %q)", t.Unit))
	}

	for i := range children {
		sb.WriteRune('\n')
		var leveledFirstPrefix string
		var leveledContPrefix string
		if i+1 < len(children) {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefix("")
			leveledContPrefix = contPrefix + treeLevelOngoing
		} else {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefixLast("")
			leveledContPrefix = contPrefix + treeLevelEmpty
		}
		itemOut := leveledStr(children[i], leveledFirstPrefix, leveledContPrefix)
		sb.WriteString(itemOut)
	}

	return sb.String()
}

// Equal reports whether two AST nodes have the same structure: same kind,
// same discriminating fields (LHSInstruction / NonTerminal+Alternative /
// Unit), and recursively equal children. Terminal source-token positions are
// not compared, so two parses of differently-formatted but semantically
// identical source can still be found equal.
func Equal(a, b Node) bool {
	switch at := a.(type) {
	case *RootNode:
		bt, ok := b.(*RootNode)
		if !ok || at.LHSInstruction != bt.LHSInstruction {
			return false
		}
		return childrenEqual(at.Children, bt.Children)
	case *IntermediaryNode:
		bt, ok := b.(*IntermediaryNode)
		if !ok || at.NonTerminal != bt.NonTerminal || at.Alternative != bt.Alternative {
			return false
		}
		return childrenEqual(at.Children, bt.Children)
	case *TerminalNode:
		bt, ok := b.(*TerminalNode)
		if !ok {
			return false
		}
		return at.Unit == bt.Unit
	default:
		return false
	}
}

func childrenEqual(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
