package cli

import "fmt"

// ExitCode is a process exit status.
type ExitCode int

const (
	ExitSuccess      ExitCode = 0
	ExitGeneralError ExitCode = 1
	ExitUsage        ExitCode = 2 // Bad flags or arguments
	ExitInvalidInput ExitCode = 3 // Unreadable or invalid job, import or config file
	ExitOutputFailed ExitCode = 4 // A report could not be written
)

// CLIError carries the exit code a failed command should end with.
type CLIError struct {
	Code    ExitCode
	Message string
	Err     error
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
