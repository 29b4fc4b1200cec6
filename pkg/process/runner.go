package process

import (
	"context"
	"errors"

	"github.com/jmgilman/go/exec"
)

// ExecRunner runs commands on the host using os/exec through jmgilman/go/exec.
type ExecRunner struct {
	newExecutor func() exec.Executor
}

// NewExecRunner returns a Runner that inherits the parent environment, so
// git sees the user's credentials helpers and SSH agent.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		newExecutor: func() exec.Executor {
			return exec.New(exec.WithInheritEnv(), exec.WithDisableColors())
		},
	}
}

// Run executes name with args in dir.
//
// A fresh executor is built per call because jmgilman/go/exec commands carry
// per-run state and are not safe to share between goroutines.
func (r *ExecRunner) Run(ctx context.Context, dir string, mode Mode, name string, args ...string) (*Result, error) {
	cmd := exec.NewWrapper(r.newExecutor(), name)
	res, err := cmd.WithDir(dir).WithContext(ctx).Run(args...)

	result := &Result{ExitCode: -1}
	if res != nil {
		result = &Result{ExitCode: res.ExitCode, Stdout: res.Stdout, Stderr: res.Stderr}
	}
	if err == nil {
		return result, nil
	}

	// A positive exit code means the process ran to completion. Anything else
	// (not found, killed by ctx) is a failure in both modes.
	if mode == ModeUnchecked && result.ExitCode > 0 && ctx.Err() == nil {
		return result, nil
	}

	cmdErr := &CommandError{
		Dir:      dir,
		Command:  append([]string{name}, args...),
		ExitCode: result.ExitCode,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
		Err:      err,
	}
	var execErr *exec.ExecError
	if errors.As(err, &execErr) && execErr.Err != nil {
		cmdErr.Err = execErr.Err
	}
	return result, cmdErr
}
