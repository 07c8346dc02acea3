package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type commandKind int

const (
	cmdText commandKind = iota
	cmdFile
	cmdSave
	cmdFiles
	cmdQuit
	cmdHelp
)

// command - parsed input line.
type command struct {
	kind commandKind
	text string
	args []string
}

const helpText = "/file <path>, /save <name> [dest], /files, /quit"

var errUsage = errors.New("usage")

// parseCommand - parses input line, anything not starting with slash is chat text.
// Double slash escapes text starting with slash.
func parseCommand(line string) (command, error) {
	if !strings.HasPrefix(line, "/") {
		return command{kind: cmdText, text: line}, nil
	}
	if strings.HasPrefix(line, "//") {
		return command{kind: cmdText, text: line[1:]}, nil
	}
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]
	switch name {
	case "/file":
		if len(args) == 0 {
			return command{}, fmt.Errorf("%w: /file <path>", errUsage)
		}
		// path may contain spaces
		return command{kind: cmdFile, args: []string{strings.TrimSpace(line[len(name):])}}, nil
	case "/save":
		if len(args) < 1 || len(args) > 2 {
			return command{}, fmt.Errorf("%w: /save <name> [dest]", errUsage)
		}
		if len(args) == 1 {
			args = append(args, filepath.Base(args[0]))
		}
		return command{kind: cmdSave, args: args}, nil
	case "/files":
		return command{kind: cmdFiles}, nil
	case "/quit", "/exit":
		return command{kind: cmdQuit}, nil
	case "/help":
		return command{kind: cmdHelp}, nil
	}
	return command{}, fmt.Errorf("unknown command %s, try %s", name, helpText)
}
