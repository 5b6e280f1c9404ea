package pocketd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Invocation is a single pocketd call: the argv after the binary name and an
// optional stdin payload. Arguments are passed to the process as-is, no shell
// is involved.
type Invocation struct {
	Args  []string
	Stdin string
}

// Result holds what a finished pocketd process produced.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	// Terminated describes how the process was stopped when it did not exit
	// on its own, e.g. "signal: killed (context canceled)".
	Terminated string
}

// Runner executes pocketd invocations. A non-zero exit is reported through
// Result.ExitCode; the error return is reserved for processes that could not
// be run at all.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (Result, error)
}

// execCommand is swapped out by tests.
var execCommand = exec.CommandContext

// ExecRunner runs the real pocketd binary.
type ExecRunner struct {
	Binary string
}

func NewExecRunner(binary string) *ExecRunner {
	return &ExecRunner{Binary: binary}
}

func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	var stdout, stderr bytes.Buffer
	cmd := execCommand(ctx, r.Binary, inv.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	setProcessGroup(cmd)
	if inv.Stdin != "" {
		cmd.Stdin = strings.NewReader(inv.Stdin)
	}

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode == -1 {
			res.Terminated = exitErr.Error()
			if ctx.Err() != nil {
				res.Terminated += " (" + context.Cause(ctx).Error() + ")"
			}
		}
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("run %s: %w", r.Binary, err)
	}
	return res, nil
}

// CommandLine renders binary and args the way an operator would type them.
// Only used for display; execution never goes through a shell.
func CommandLine(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, a := range append([]string{binary}, args...) {
		if a == "" || strings.ContainsAny(a, " \t\n\"'$`\\") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
