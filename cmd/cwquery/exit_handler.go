package main

import (
	"errors"
	"os"

	"github.com/loykin/cwquery/cmd/cwquery/commands"
	"github.com/loykin/cwquery/internal/common"
	"github.com/loykin/cwquery/internal/constants"
)

// ExitHandler provides a testable way to handle program termination
type ExitHandler interface {
	Exit(code int)
	LogFatalError(err error, msg string, keyvals ...any)
}

// DefaultExitHandler implements ExitHandler for production use
type DefaultExitHandler struct{}

// Exit terminates the program with the given exit code
func (h *DefaultExitHandler) Exit(code int) {
	os.Exit(code)
}

// LogFatalError logs a fatal error and exits with fatalExitCode(err). The
// logger is looked up at call time so settings from the config file apply.
func (h *DefaultExitHandler) LogFatalError(err error, msg string, keyvals ...any) {
	allKeyvals := append([]any{"error", err}, keyvals...)
	common.GetLogger().WithComponent("main").Error(msg, allKeyvals...)
	h.Exit(fatalExitCode(err))
}

// fatalExitCode is 2 for configuration errors and 1 for everything else.
func fatalExitCode(err error) int {
	var cfgErr *commands.ConfigError
	if errors.As(err, &cfgErr) {
		return constants.ExitInvalidConfig
	}
	return 1
}

// Global exit handler (can be replaced for testing)
var exitHandler ExitHandler = &DefaultExitHandler{}
