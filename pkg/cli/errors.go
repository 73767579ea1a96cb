package cli

import "fmt"

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
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

// Exit codes reported by sysmonlint commands.
const (
	// ExitOK means the configuration is valid.
	ExitOK = 0
	// ExitFindings means validation produced findings.
	ExitFindings = 1
	// ExitFailure means the run could not complete: unreadable or
	// malformed input, bad flags, broken tool configuration.
	ExitFailure = 2
)

// ExitError carries a process exit code alongside an optional cause. It lets
// command implementations distinguish "validated with findings" from "could
// not validate" without printing through cobra's error path twice.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and cause.
// A nil cause is allowed for silent non-zero exits, such as when the
// findings themselves were already printed as the command's output.
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}
