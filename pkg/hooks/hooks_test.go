package hooks

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pokt-ops/supplierkit/pkg/common"
	devcontext "github.com/pokt-ops/supplierkit/pkg/context"
	"github.com/pokt-ops/supplierkit/pkg/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestActionChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) func(cli.ActionFunc) cli.ActionFunc {
		return func(next cli.ActionFunc) cli.ActionFunc {
			return func(ctx *cli.Context) error {
				order = append(order, name)
				return next(ctx)
			}
		}
	}

	chain := NewActionChain()
	chain.Use(mw("first"))
	chain.Use(mw("second"))

	leaf := &cli.Command{Name: "leaf", Action: func(*cli.Context) error {
		order = append(order, "action")
		return nil
	}}
	group := &cli.Command{Name: "group", Subcommands: []*cli.Command{leaf}}
	ApplyMiddleware([]*cli.Command{group}, chain)

	app := &cli.App{Name: "supplierkit", Commands: []*cli.Command{group}}
	require.NoError(t, app.Run([]string{"supplierkit", "group", "leaf"}))
	assert.Equal(t, []string{"first", "second", "action"}, order)
}

func TestWithTelemetry_WritesMetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.prom")

	run := func(actionErr error) error {
		var seen bool
		cmd := &cli.Command{
			Name:  "stake",
			Flags: common.WithFlags(nil, common.GlobalFlags(), common.PocketdFlags()),
			Action: func(ctx *cli.Context) error {
				metrics, err := telemetry.MetricsFromContext(ctx.Context)
				require.NoError(t, err)
				metrics.AddMetricWithDimensions(FormatMetricName("stake", "records"), 2, map[string]string{"status": "submitted"})
				_, seen = devcontext.AppEnvironmentFromContext(ctx.Context)
				return actionErr
			},
		}
		chain := NewActionChain()
		chain.Use(WithEnvLoader)
		chain.Use(WithLogger)
		chain.Use(WithTelemetry)
		ApplyMiddleware([]*cli.Command{cmd}, chain)

		app := &cli.App{Name: "supplierkit", Version: "v0.0.1", Commands: []*cli.Command{cmd}}
		err := app.Run([]string{"supplierkit", "stake", "--metrics-file", path, "--network", "beta"})
		assert.True(t, seen)
		return err
	}

	require.NoError(t, run(nil))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, "supplierkit_stake_count 1")
	assert.Contains(t, out, "supplierkit_stake_success 1")
	assert.Contains(t, out, `supplierkit_stake_records{status="submitted"} 2`)
	assert.Contains(t, out, `network="beta"`)
	assert.Contains(t, out, `cli_version="v0.0.1"`)

	assert.Error(t, run(errors.New("boom")))
	raw, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "supplierkit_stake_failure 1")
}

func TestWithLogger_RejectsUnknownFormat(t *testing.T) {
	cmd := &cli.Command{
		Name:   "stake",
		Flags:  common.GlobalFlags(),
		Action: WithLogger(func(*cli.Context) error { return nil }),
	}
	app := &cli.App{Name: "supplierkit", Commands: []*cli.Command{cmd}, ExitErrHandler: func(*cli.Context, error) {}}
	err := app.Run([]string{"supplierkit", "stake", "--log-format", "xml"})
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SUPPLIERKIT_HOOKS_TEST=from-file\n"), 0o600))

	t.Setenv("SUPPLIERKIT_HOOKS_TEST", "")
	require.NoError(t, os.Unsetenv("SUPPLIERKIT_HOOKS_TEST"))
	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("SUPPLIERKIT_HOOKS_TEST"))

	t.Setenv("SUPPLIERKIT_HOOKS_TEST", "from-env")
	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-env", os.Getenv("SUPPLIERKIT_HOOKS_TEST"))

	assert.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
}

func TestFormatMetricName(t *testing.T) {
	assert.Equal(t, "supplierkit.stake.count", FormatMetricName("stake", "count"))
	assert.Equal(t, "supplierkit_stake_count", telemetry.MetricName(FormatMetricName("stake", "count")))
}
