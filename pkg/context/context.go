package context

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// AppEnvironment describes the running binary
type AppEnvironment struct {
	CLIVersion string
	OS         string
	Arch       string
}

func NewAppEnvironment(cliVersion, os, arch string) *AppEnvironment {
	return &AppEnvironment{CLIVersion: cliVersion, OS: os, Arch: arch}
}

type appEnvKey struct{}

func WithAppEnvironment(ctx context.Context, env *AppEnvironment) context.Context {
	return context.WithValue(ctx, appEnvKey{}, env)
}

func AppEnvironmentFromContext(ctx context.Context) (*AppEnvironment, bool) {
	env, ok := ctx.Value(appEnvKey{}).(*AppEnvironment)
	return env, ok
}

// WithShutdown creates a new context that is cancelled on SIGTERM/SIGINT.
// The running record finishes, no further record is started. A second
// signal exits immediately.
func WithShutdown(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "caught interrupt, finishing the current record (interrupt again to abort)")
		cancel()
		<-sigChan
		os.Exit(130)
	}()

	return ctx
}
