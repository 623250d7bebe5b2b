package commands

import (
	"strings"

	"github.com/goliatone/go-credits/internal/logging"
	"github.com/goliatone/go-credits/pkg/interfaces"
)

// CommandLogger returns the command module logger tagged with the handler name.
func CommandLogger(provider interfaces.LoggerProvider, handler string) interfaces.Logger {
	name := strings.TrimSpace(handler)
	if name == "" {
		name = "core"
	}
	return logging.WithFields(logging.CommandsLogger(provider), map[string]any{
		"component": "command",
		"handler":   name,
	})
}
