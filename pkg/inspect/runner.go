package inspect

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	deployerrors "github.com/toolchainkit/libdeploy/pkg/errors"
	"github.com/toolchainkit/libdeploy/pkg/logging"
)

// ExecRunner runs external inspection and fixup tools with a bounded timeout.
// A missing binary, an expired deadline and a non-zero exit are reported as
// distinct coded errors; callers treat all three as "skip this library".
type ExecRunner struct {
	timeout time.Duration
	logger  zerolog.Logger
}

// NewExecRunner creates a runner with the given per-invocation timeout
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{
		timeout: timeout,
		logger:  logging.GetLogger("inspect.runner"),
	}
}

// Run executes the tool and returns its standard output
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	logging.LogCommand(name, args)

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", deployerrors.Newf(deployerrors.ErrToolTimeout,
			"%s timed out after %s", name, r.timeout)
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
		return "", deployerrors.Newf(deployerrors.ErrToolUnavailable, "%s not found", name)
	}

	r.logger.Debug().Str("tool", name).Str("stderr", stderr.String()).Msg("tool failed")
	return "", deployerrors.Wrapf(err, deployerrors.ErrToolFailure, "%s failed", name)
}
