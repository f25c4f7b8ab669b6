package check

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// execResult carries one subprocess run's observable outcome. Stdout and
// stderr stay separate: checkers disagree about which channel results go to.
type execResult struct {
	stdout   string
	stderr   string
	exitErr  error
	timedOut bool
}

// runnerFunc executes one checker subprocess. Indirection so tests can feed
// recorded tool transcripts without spawning processes.
type runnerFunc func(ctx context.Context, bin string, args []string, dir string, timeout time.Duration) execResult

// runSubprocess is the production runner: an isolated subprocess with a
// bounded wall-clock timeout, killed when the caller's context is cancelled.
func runSubprocess(ctx context.Context, bin string, args []string, dir string, timeout time.Duration) execResult {
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, bin, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	res := execResult{
		stdout:   stdout.String(),
		stderr:   stderr.String(),
		exitErr:  err,
		timedOut: cmdCtx.Err() == context.DeadlineExceeded,
	}

	slog.Debug("checker subprocess finished",
		"bin", bin,
		"dir", dir,
		"timed_out", res.timedOut,
		"exit_err", err,
	)
	return res
}

// toolMissingIndicators are stderr signatures meaning the binary resolved
// but the underlying tool is not actually installed (npx shims, broken
// node_modules). Matching is case-insensitive.
var toolMissingIndicators = []string{
	"not found",
	"err_module_not_found",
	"cannot find module",
	"command not found",
	"could not determine executable",
}

func toolMissing(stderr string) bool {
	lower := strings.ToLower(stderr)
	for _, ind := range toolMissingIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}
