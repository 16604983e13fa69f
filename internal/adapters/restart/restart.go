// Package restart provides process-level restarters.
//
// A device reboot is modelled as a restart of the controller process: either
// re-executing the running binary in place (warm restart) or exiting with a
// code a supervisor maps to a restart.
package restart

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/bft-labs/modemprov/pkg/log"
)

// DefaultExitCode is the exit status used by ExitRestarter.
const DefaultExitCode = 75

// ExecRestarter replaces the running process with a fresh copy of itself.
// Restart only returns if the exec fails.
type ExecRestarter struct {
	logger log.Logger

	executable func() (string, error)
	exec       func(argv0 string, argv []string, envv []string) error
	args       []string
}

// NewExecRestarter creates a restarter that re-executes os.Args.
func NewExecRestarter(logger log.Logger) *ExecRestarter {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &ExecRestarter{
		logger:     logger,
		executable: os.Executable,
		exec:       syscall.Exec,
		args:       os.Args,
	}
}

// Restart re-executes the binary with the same arguments and environment.
func (r *ExecRestarter) Restart(ctx context.Context) error {
	path, err := r.executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	r.logger.Warn("restarting", log.String("path", path))
	if err := r.exec(path, r.args, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}
	return nil
}

// ExitRestarter terminates the process with a fixed exit code and relies on
// a supervisor (systemd, a container runtime) to start it again.
type ExitRestarter struct {
	code   int
	logger log.Logger
	exit   func(code int)
}

// NewExitRestarter creates a restarter exiting with code. A zero code selects
// DefaultExitCode.
func NewExitRestarter(code int, logger log.Logger) *ExitRestarter {
	if code == 0 {
		code = DefaultExitCode
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &ExitRestarter{code: code, logger: logger, exit: os.Exit}
}

// Restart exits the process. It returns only when exit is stubbed.
func (r *ExitRestarter) Restart(ctx context.Context) error {
	r.logger.Warn("exiting for restart", log.Int("exit_code", r.code))
	r.exit(r.code)
	return nil
}
