package command

import (
	"strings"

	"github.com/cuwacunu/tsiemene/internal/tqerrors"
)

var (
	// VerbAliases maps shorthand verbs (which must be the first word in a
	// command) to their canonical forms. They are all uppercase.
	VerbAliases = map[string]string{
		"Q":    "QUIT",
		"L":    "LOAD",
		"V":    "VALIDATE",
		"R":    "RUN",
		"D":    "DISPATCH",
		"F":    "FOCUS",
		"?":    "HELP",
		"/?":   "HELP",
		"H":    "HELP",
		"NEXT": "FOCUS NEXT",
		"PREV": "FOCUS PREV",
	}
)

// ParseCommand parses a command from the given text. If it cannot, a
// non-nil error is returned.
//
// If an empty string or a string composed only of whitespace is passed in,
// nil error is returned and a zero value for Command will be returned.
func ParseCommand(toParse string) (Command, error) {
	var parsedCmd Command

	// make entire input upper case to make matching easy
	normalizedCase := strings.ToUpper(toParse)

	// now tokenize our string, collapsing all whitespace
	originalTokens := strings.Fields(toParse)
	tokens := ExpandAliases(strings.Fields(normalizedCase), 2)

	if len(tokens) < 1 {
		return parsedCmd, nil
	}

	parsedCmd.Verb = tokens[0]

	switch parsedCmd.Verb {
	case "LOAD":
		if len(tokens) < 2 {
			return parsedCmd, tqerrors.Interpreterf("I don't know what file you want to load")
		}
		// respect case for the file path argument
		parsedCmd.Target = strings.Join(caseTokensAfter(originalTokens, 1), " ")

	case "VALIDATE", "RUN":
		// neither takes arguments: both act on whatever is currently loaded
		if len(tokens) > 1 {
			return parsedCmd, tqerrors.Interpreterf("%s takes no arguments", parsedCmd.Verb)
		}

	case "DISPATCH":
		if len(tokens) < 2 {
			return parsedCmd, tqerrors.Interpreterf("I don't know which event you want to dispatch")
		}
		parsedCmd.Target = tokens[1]
		if len(tokens) > 2 {
			parsedCmd.Payload = strings.Join(caseTokensAfter(originalTokens, 2), " ")
		}

	case "FOCUS":
		if len(tokens) < 2 || (tokens[1] != "NEXT" && tokens[1] != "PREV") {
			return parsedCmd, tqerrors.Interpreterf("FOCUS needs NEXT or PREV")
		}
		parsedCmd.Target = tokens[1]

	case "KEY":
		if len(tokens) < 2 {
			return parsedCmd, tqerrors.Interpreterf("I don't know which key you mean")
		}
		parsedCmd.Target = tokens[1]

	case "SCREEN":
		if len(tokens) < 2 {
			return parsedCmd, tqerrors.Interpreterf("I don't know which screen you want")
		}
		parsedCmd.Target = strings.Join(caseTokensAfter(originalTokens, 1), " ")

	case "HELP":
		if len(tokens) > 1 {
			parsedCmd.Target = tokens[1]
		}

	case "QUIT":
		if len(tokens) > 1 {
			return parsedCmd, tqerrors.Interpreterf("QUIT takes no arguments")
		}

	default:
		return parsedCmd, tqerrors.Interpreterf("I don't know what you mean by %q", originalTokens[0])
	}

	return parsedCmd, nil
}

// caseTokensAfter re-tokenizes the original (not upper-cased) input and
// returns the fields from index i onward, so arguments like file paths and
// dispatch payloads keep their original case.
func caseTokensAfter(originalTokens []string, i int) []string {
	if i >= len(originalTokens) {
		return nil
	}
	return originalTokens[i:]
}

// ExpandAliases takes a slice of upper-cased tokens of user input and runs
// alias expansion on it. Aliases up to aliasLimit words long are supported;
// expansion is not applied to the results of an expansion.
func ExpandAliases(tokens []string, aliasLimit int) []string {
	expandedTokens := append([]string{}, tokens...)
	if aliasLimit < 1 {
		return expandedTokens
	}
	if aliasLimit > len(tokens) {
		aliasLimit = len(tokens)
	}

	for curLimit := 1; curLimit <= aliasLimit; curLimit++ {
		checkStr := strings.Join(tokens[:curLimit], " ")
		expansion, ok := VerbAliases[checkStr]
		if ok {
			replacementTokens := strings.Fields(expansion)
			expandedTokens = append(replacementTokens, tokens[curLimit:]...)
			return expandedTokens
		}
	}

	return expandedTokens
}
