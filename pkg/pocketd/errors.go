package pocketd

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/grpc/codes"
)

// ErrUnexpectedOutput is returned when pocketd succeeds but prints something
// that cannot be decoded.
var ErrUnexpectedOutput = errors.New("unexpected pocketd output")

// CommandError reports a pocketd process that exited non-zero, or a
// transaction that was broadcast but rejected with a non-zero code.
type CommandError struct {
	Args     []string
	ExitCode int
	// Code is the gRPC status pocketd reported, codes.Unknown when none was printed.
	Code    codes.Code
	Message string
}

func (e *CommandError) Error() string {
	sub := strings.Join(subcommand(e.Args), " ")
	if e.Code != codes.Unknown {
		return fmt.Sprintf("pocketd %s: exit %d (%s): %s", sub, e.ExitCode, e.Code, e.Message)
	}
	return fmt.Sprintf("pocketd %s: exit %d: %s", sub, e.ExitCode, e.Message)
}

// IsNotFound reports whether err carries a gRPC NotFound status from pocketd.
func IsNotFound(err error) bool {
	var ce *CommandError
	return errors.As(err, &ce) && ce.Code == codes.NotFound
}

var (
	statusPattern = regexp.MustCompile(`code\s*=\s*([A-Za-z]+)`)
	codesByName   = func() map[string]codes.Code {
		m := make(map[string]codes.Code)
		for c := codes.OK; c <= codes.Unauthenticated; c++ {
			m[c.String()] = c
		}
		return m
	}()
)

// ClassifyStatus extracts the gRPC status code pocketd prints for failed
// queries ("rpc error: code = NotFound desc = ..."). The code name is part of
// the gRPC wire contract, unlike the free-form description after it.
func ClassifyStatus(output []byte) (codes.Code, bool) {
	m := statusPattern.FindSubmatch(output)
	if m == nil {
		return codes.Unknown, false
	}
	c, ok := codesByName[string(m[1])]
	if !ok {
		return codes.Unknown, false
	}
	return c, true
}

func newCommandError(inv Invocation, res Result) *CommandError {
	code, _ := ClassifyStatus(res.Stderr)
	msg := strings.TrimSpace(string(res.Stderr))
	if msg == "" {
		msg = strings.TrimSpace(string(res.Stdout))
	}
	msg = lastLine(msg)
	switch {
	case res.Terminated != "" && msg == "":
		msg = res.Terminated
	case res.Terminated != "":
		msg = res.Terminated + ": " + msg
	}
	return &CommandError{
		Args:     inv.Args,
		ExitCode: res.ExitCode,
		Code:     code,
		Message:  msg,
	}
}

// subcommand returns the leading non-flag arguments, e.g. "tx supplier stake-supplier".
func subcommand(args []string) []string {
	var out []string
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			break
		}
		out = append(out, a)
	}
	return out
}

func lastLine(s string) string {
	if i := strings.LastIndex(s, "\n"); i >= 0 {
		return s[i+1:]
	}
	return s
}
