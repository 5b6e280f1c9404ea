package common

import (
	"context"

	"github.com/pokt-ops/supplierkit/pkg/common/iface"
	"github.com/pokt-ops/supplierkit/pkg/common/logger"
)

type loggerKey struct{}

// NewLogger builds the logger selected by --log-format.
func NewLogger(verbose bool, format string) iface.Logger {
	if format == "json" {
		return logger.NewZapLogger(verbose)
	}
	return logger.NewColoredLogger(logger.NewLogger(verbose))
}

func WithLogger(ctx context.Context, l iface.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// LoggerFromContext returns the logger installed by the hooks, or a plain
// non-verbose logger when none is present.
func LoggerFromContext(ctx context.Context) iface.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(iface.Logger); ok {
			return l
		}
	}
	return logger.NewLogger(false)
}
