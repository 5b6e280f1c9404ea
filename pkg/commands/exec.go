package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pokt-ops/supplierkit/pkg/common"
	"github.com/pokt-ops/supplierkit/pkg/hooks"
	"github.com/pokt-ops/supplierkit/pkg/pocketd"
	"github.com/pokt-ops/supplierkit/pkg/telemetry"
	"github.com/urfave/cli/v2"
)

// newRunner and sleep are replaced in tests.
var (
	newRunner = func(binary string) pocketd.Runner { return pocketd.NewExecRunner(binary) }
	sleep     = common.Sleep
)

func newClient(cfg common.Config) *pocketd.Client {
	return pocketd.NewClient(newRunner(cfg.Binary), cfg)
}

func newPacer(cfg common.Config) *common.Pacer {
	return common.NewPacer(cfg.Delay).WithSleep(func(ctx context.Context, d time.Duration) error {
		return sleep(ctx, d)
	})
}

// recordCounts adds one <command>.records series per status.
func recordCounts(ctx context.Context, command string, counts map[string]int) {
	metrics, err := telemetry.MetricsFromContext(ctx)
	if err != nil {
		return
	}
	for status, n := range counts {
		metrics.AddMetricWithDimensions(hooks.FormatMetricName(command, "records"), float64(n), map[string]string{"status": status})
	}
}

// failureExit turns aggregated failures into exit status 1.
func failureExit(what string, failed, total int, interrupted bool, err error) error {
	switch {
	case failed > 0:
		return cli.Exit(fmt.Sprintf("%d of %d %s failed\n%s", failed, total, what, strings.TrimSpace(err.Error())), 1)
	case interrupted:
		return cli.Exit("interrupted before all "+what+" were processed", 1)
	}
	return nil
}

func configError(err error) error {
	return cli.Exit(err.Error(), 1)
}
