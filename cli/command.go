package cli

import (
	"strings"
)

// Command is a parsed combat command.
type Command struct {
	Verb  string
	Args  []string
	Aggro bool // "aggro" or "!" appeared anywhere in the input
}

var verbAliases = map[string]string{
	"t":     "turn",
	"begin": "turn",
	"start": "turn",

	"a":    "assign",
	"play": "assign",
	"use":  "assign",

	"c":    "commit",
	"lock": "commit",
	"go":   "commit",

	"s":       "step",
	"resolve": "step",

	"e":      "end",
	"finish": "end",

	"n":     "next",
	"fight": "next",

	"d":     "deck",
	"cards": "deck",

	"slot": "slots",
}

// Words that carry no meaning in any command.
var fillers = map[string]bool{
	"the": true, "a": true, "an": true,
	"slot": true, "card": true,
	"at": true, "on": true, "to": true, "in": true, "into": true, "->": true,
}

// Parse converts a raw command line into a Command. Matching is case
// insensitive; "assign 0 slash at 1 aggro" and "a 0 slash 1 !" parse the
// same.
func Parse(input string) Command {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(words) == 0 {
		return Command{}
	}

	words = expandMultiWordVerbs(words)
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	cmd := Command{Verb: words[0]}
	for _, w := range words[1:] {
		switch {
		case w == "aggro" || w == "!":
			cmd.Aggro = true
		case fillers[w]:
		default:
			cmd.Args = append(cmd.Args, w)
		}
	}
	return cmd
}

// expandMultiWordVerbs handles "end turn", "next turn", "show deck" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "end", "finish":
		if words[1] == "turn" {
			return append([]string{"end"}, words[2:]...)
		}
	case "next", "play":
		if words[1] == "turn" {
			return append([]string{"next"}, words[2:]...)
		}
	case "new", "start", "begin":
		if words[1] == "turn" {
			return append([]string{"turn"}, words[2:]...)
		}
	case "show", "list":
		switch words[1] {
		case "deck", "cards":
			return append([]string{"deck"}, words[2:]...)
		case "slots", "speed":
			return append([]string{"slots"}, words[2:]...)
		}
	case "auto":
		if words[1] == "assign" {
			return append([]string{"auto"}, words[2:]...)
		}
	}

	return words
}
