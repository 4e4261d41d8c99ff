package cli

import (
	"errors"
	"fmt"

	"lumenhq/dispatch/pkg/config"
	"lumenhq/dispatch/pkg/providers"
)

// Process exit codes returned by dispatchctl.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitAuth        = 3
	ExitRateLimited = 4
	ExitTimeout     = 5
	ExitUnsupported = 6
	ExitProvider    = 7
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config error: %s", e.Message)
	}
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		cfgErr  *ConfigError
		confErr config.ValidationError
		reqErr  *providers.ValidationError
		regErr  *providers.ConfigError
	)
	if errors.As(err, &cfgErr) || errors.As(err, &confErr) || errors.As(err, &reqErr) || errors.As(err, &regErr) {
		return ExitUsage
	}

	switch providers.KindOf(err) {
	case providers.AuthenticationFailed, providers.Forbidden:
		return ExitAuth
	case providers.RateLimited:
		return ExitRateLimited
	case providers.NetworkTimeout:
		return ExitTimeout
	case providers.UnsupportedCapability:
		return ExitUnsupported
	case providers.KindUnknown:
		return ExitFailure
	default:
		return ExitProvider
	}
}
