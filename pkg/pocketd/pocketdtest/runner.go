// Package pocketdtest provides a scripted pocketd.Runner for tests.
package pocketdtest

import (
	"context"
	"strings"
	"sync"

	"github.com/pokt-ops/supplierkit/pkg/pocketd"
)

// Handler answers one invocation.
type Handler func(inv pocketd.Invocation) (pocketd.Result, error)

// Runner records every invocation and answers it with Handler. With no
// Handler every call succeeds with empty output.
type Runner struct {
	Handler Handler

	mu    sync.Mutex
	calls []pocketd.Invocation
}

func (r *Runner) Run(_ context.Context, inv pocketd.Invocation) (pocketd.Result, error) {
	r.mu.Lock()
	r.calls = append(r.calls, inv)
	r.mu.Unlock()

	if r.Handler == nil {
		return pocketd.Result{}, nil
	}
	return r.Handler(inv)
}

// Calls returns the invocations seen so far.
func (r *Runner) Calls() []pocketd.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]pocketd.Invocation(nil), r.calls...)
}

// CallsTo returns the invocations whose leading arguments equal prefix,
// e.g. CallsTo("tx", "supplier", "stake-supplier").
func (r *Runner) CallsTo(prefix ...string) []pocketd.Invocation {
	var out []pocketd.Invocation
	for _, c := range r.Calls() {
		if HasPrefix(c, prefix...) {
			out = append(out, c)
		}
	}
	return out
}

// HasPrefix reports whether inv starts with the given arguments.
func HasPrefix(inv pocketd.Invocation, prefix ...string) bool {
	if len(inv.Args) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if inv.Args[i] != p {
			return false
		}
	}
	return true
}

// Flag returns the value of a --name=value argument, or "".
func Flag(inv pocketd.Invocation, name string) string {
	key := "--" + name + "="
	for _, a := range inv.Args {
		if strings.HasPrefix(a, key) {
			return strings.TrimPrefix(a, key)
		}
	}
	return ""
}

// OK is a successful result printing stdout.
func OK(stdout string) pocketd.Result {
	return pocketd.Result{Stdout: []byte(stdout)}
}

// Fail is a failed result with the given exit code and stderr.
func Fail(exitCode int, stderr string) pocketd.Result {
	return pocketd.Result{ExitCode: exitCode, Stderr: []byte(stderr)}
}

// NotFoundStderr is what pocketd prints for an unknown supplier.
func NotFoundStderr(operator string) string {
	return "Error: rpc error: code = NotFound desc = supplier with operator address: " + operator + " not found: key not found\n"
}

// SupplierJSON is a show-supplier response with the given stake amount.
func SupplierJSON(operator, amount string) string {
	return `{"supplier":{"owner_address":"pokt1owner","operator_address":"` + operator +
		`","stake":{"denom":"upokt","amount":"` + amount + `"},"services":[]}}`
}
