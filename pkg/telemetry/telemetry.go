package telemetry

import (
	"context"
)

// Client defines the interface for telemetry operations
type Client interface {
	// AddMetric records a single metric
	AddMetric(ctx context.Context, metric Metric) error
	// Close flushes recorded metrics and cleans up any resources
	Close() error
}

// Properties represents the base properties attached to every run
type Properties struct {
	CLIVersion string
	OS         string
	Arch       string
	Network    string
}

// NewProperties creates a new Properties instance
func NewProperties(cliVersion, os, arch, network string) Properties {
	return Properties{
		CLIVersion: cliVersion,
		OS:         os,
		Arch:       arch,
		Network:    network,
	}
}

// Map returns the non-empty properties keyed by label name
func (p Properties) Map() map[string]string {
	out := make(map[string]string, 4)
	for k, v := range map[string]string{
		"cli_version": p.CLIVersion,
		"os":          p.OS,
		"arch":        p.Arch,
		"network":     p.Network,
	} {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// WithContext returns a new context with the telemetry client
func WithContext(ctx context.Context, client Client) context.Context {
	return context.WithValue(ctx, contextKey{}, client)
}

// ClientFromContext retrieves the telemetry client from context
func ClientFromContext(ctx context.Context) (Client, bool) {
	client, ok := ctx.Value(contextKey{}).(Client)
	return client, ok
}

type contextKey struct{}

// NoopClient discards every metric
type NoopClient struct{}

func NewNoopClient() *NoopClient {
	return &NoopClient{}
}

func (*NoopClient) AddMetric(context.Context, Metric) error { return nil }

func (*NoopClient) Close() error { return nil }
