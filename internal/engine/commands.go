package engine

import "strings"

// command is the closed set of recognized chat commands. Anything else
// falls through to answer matching.
type command int

const (
	cmdNone command = iota
	cmdStart
	cmdHelp
	cmdHint
)

func parseCommand(text string) command {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "start", "restart":
		return cmdStart
	case "help", "?":
		return cmdHelp
	case "hint":
		return cmdHint
	}
	return cmdNone
}
