//go:generate mockgen -destination=./mocks/process.go -package mocks . Runner

// Package process runs external commands on behalf of the addon manager.
//
// Every invocation names an execution Mode. ModeStrict turns a nonzero exit
// into a *CommandError; ModeUnchecked hands the Result back regardless of the
// exit code so the caller can inspect it or ignore a best-effort failure.
package process

import (
	"context"
	"strings"
)

// Mode selects how a nonzero exit status is treated.
type Mode int

const (
	// ModeStrict fails the invocation when the command exits nonzero.
	ModeStrict Mode = iota
	// ModeUnchecked returns the result whatever the exit code.
	ModeUnchecked
)

// String returns the lowercase name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeStrict:
		return "strict"
	case ModeUnchecked:
		return "unchecked"
	default:
		return "unknown"
	}
}

// Result is the outcome of a finished command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Succeeded reports whether the command exited with status zero.
func (r *Result) Succeeded() bool {
	return r != nil && r.ExitCode == 0
}

// Output returns stdout with surrounding whitespace removed.
func (r *Result) Output() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.Stdout)
}

// Runner executes a command inside a working directory.
//
// Implementations must return a *CommandError when a ModeStrict command exits
// nonzero, and must return an error in either mode when the command cannot be
// started or is interrupted by ctx.
type Runner interface {
	Run(ctx context.Context, dir string, mode Mode, name string, args ...string) (*Result, error)
}
