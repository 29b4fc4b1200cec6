package process

import (
	"fmt"
	"strings"

	"github.com/glorpus-work/chicken/pkg/errutils"
)

// CommandError describes a command that failed in strict mode or could not run at all.
type CommandError struct {
	Dir      string
	Command  []string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q in %s failed with exit code %d", strings.Join(e.Command, " "), e.Dir, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both ErrCommandFailed and the underlying cause to errors.Is.
func (e *CommandError) Unwrap() []error {
	if e.Err == nil {
		return []error{errutils.ErrCommandFailed}
	}
	return []error{errutils.ErrCommandFailed, e.Err}
}
