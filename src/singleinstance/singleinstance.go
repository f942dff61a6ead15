// Package singleinstance keeps one resident translator per user session.
// A second launch finds the resident on a loopback port and hands it a
// command instead of starting its own overlay.
package singleinstance

import (
	"fmt"
	"strings"
)

// Command is one line of the loopback protocol.
type Command string

const (
	CommandCircle      Command = "CIRCLE"
	CommandRetranslate Command = "RETRANSLATE"
	CommandClose       Command = "CLOSE"
)

const (
	residentHost = "127.0.0.1"
	pingRequest  = "PING\n"
	pongResponse = "PONG\n"
	okResponse   = "OK\n"
	errResponse  = "ERROR\n"
)

// ParseCommand accepts a command name in any case.
func ParseCommand(s string) (Command, error) {
	c := Command(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case CommandCircle, CommandRetranslate, CommandClose:
		return c, nil
	}
	return "", fmt.Errorf("unknown command %q", s)
}
