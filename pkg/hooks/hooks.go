package hooks

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/pokt-ops/supplierkit/pkg/common"
	"github.com/pokt-ops/supplierkit/pkg/common/iface"
	devcontext "github.com/pokt-ops/supplierkit/pkg/context"
	"github.com/pokt-ops/supplierkit/pkg/telemetry"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

// MetricPrefix is the prefix applied to every metric name
const MetricPrefix = "supplierkit"

func setupTelemetry(ctx *cli.Context) telemetry.Client {
	path := ctx.String(common.FlagMetricsFile)
	if path == "" {
		return telemetry.NewNoopClient()
	}
	return telemetry.NewPrometheusClient(common.ExpandHome(path))
}

func FormatMetricName(command, action string) string {
	return fmt.Sprintf("%s.%s.%s", MetricPrefix, command, action)
}

type ActionChain struct {
	Processors []func(action cli.ActionFunc) cli.ActionFunc
}

// NewActionChain creates a new action chain
func NewActionChain() *ActionChain {
	return &ActionChain{
		Processors: make([]func(action cli.ActionFunc) cli.ActionFunc, 0),
	}
}

// Use appends a new processor to the chain
func (ac *ActionChain) Use(processor func(action cli.ActionFunc) cli.ActionFunc) {
	ac.Processors = append(ac.Processors, processor)
}

// Wrap applies all processors in the correct order
func (ac *ActionChain) Wrap(action cli.ActionFunc) cli.ActionFunc {
	for i := len(ac.Processors) - 1; i >= 0; i-- {
		action = ac.Processors[i](action)
	}
	return action
}

// ApplyMiddleware applies a list of middleware functions to commands
func ApplyMiddleware(commands []*cli.Command, chain *ActionChain) {
	for _, cmd := range commands {
		if cmd.Action != nil {
			cmd.Action = chain.Wrap(cmd.Action)
		}
		if len(cmd.Subcommands) > 0 {
			ApplyMiddleware(cmd.Subcommands, chain)
		}
	}
}

// WithLogger installs the logger selected by --verbose and --log-format
func WithLogger(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		format := ctx.String(common.FlagLogFormat)
		if format != "text" && format != "json" {
			return cli.Exit(fmt.Sprintf("invalid --%s %q (text|json)", common.FlagLogFormat, format), 1)
		}
		log := common.NewLogger(ctx.Bool(common.FlagVerbose), format)
		ctx.Context = common.WithLogger(ctx.Context, log)

		err := action(ctx)

		if s, ok := log.(interface{ Sync() error }); ok {
			_ = s.Sync()
		}
		return err
	}
}

func WithTelemetry(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		command := ctx.Command.Name

		// Pre-processing to set up telemetry context and metrics
		setupTelemetryContext(ctx, command)

		// Run requested cli action
		err := action(ctx)

		// Post-processing to emit result metrics
		emitTelemetryMetrics(ctx, command, err)

		return err
	}
}

func setupTelemetryContext(ctx *cli.Context, command string) {
	client := setupTelemetry(ctx)
	ctx.Context = telemetry.WithContext(ctx.Context, client)

	metrics := telemetry.NewMetricsContext(ctx.App.Name, command)
	ctx.Context = telemetry.WithMetricsContext(ctx.Context, metrics)

	network := strings.ToLower(strings.TrimSpace(ctx.String(common.FlagNetwork)))
	props := telemetry.Properties{Network: network}
	if appEnv, ok := devcontext.AppEnvironmentFromContext(ctx.Context); ok {
		props = telemetry.NewProperties(appEnv.CLIVersion, appEnv.OS, appEnv.Arch, network)
	}
	for k, v := range props.Map() {
		metrics.Properties[k] = v
	}
	metrics.Properties["dry_run"] = fmt.Sprintf("%t", ctx.Bool(common.FlagDryRun))

	metrics.AddMetric(FormatMetricName(command, "count"), 1)
}

func emitTelemetryMetrics(ctx *cli.Context, command string, actionError error) {
	metrics, mErr := telemetry.MetricsFromContext(ctx.Context)
	if mErr != nil {
		return
	}

	result := "success"
	if actionError != nil {
		result = "failure"
	}

	metrics.AddMetric(FormatMetricName(command, result), 1)
	duration := time.Since(metrics.StartTime).Milliseconds()
	metrics.AddMetric(FormatMetricName(command, "duration_milliseconds"), float64(duration))
	metrics.AddMetricWithDimensions(FormatMetricName(command, "info"), 1, metrics.Properties)

	client, ok := telemetry.ClientFromContext(ctx.Context)
	if !ok {
		return
	}
	log := common.LoggerFromContext(ctx.Context)
	for _, metric := range metrics.Metrics {
		if err := client.AddMetric(ctx.Context, metric); err != nil {
			log.WarnWithActor(iface.ActorTelemetry, "%v", err)
		}
	}
	if err := client.Close(); err != nil {
		log.WarnWithActor(iface.ActorTelemetry, "%v", err)
	}
}

// WithEnvLoader creates a pre-processor that loads environment variables
func WithEnvLoader(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		ctx.Context = devcontext.WithAppEnvironment(ctx.Context, devcontext.NewAppEnvironment(
			ctx.App.Version,
			runtime.GOOS,
			runtime.GOARCH,
		))

		if err := LoadEnvFile(common.EnvFile); err != nil {
			return err
		}

		return action(ctx)
	}
}

// LoadEnvFile loads environment variables from path if it exists.
// Variables already set in the environment win. Flag EnvVars are resolved
// while parsing, so main calls this before the app runs as well.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
