package logger

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pokt-ops/supplierkit/pkg/common/iface"
)

func TestBasicLogger_DebugRespectsVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, false)
	l.Debug("hidden %d", 1)
	assert.Empty(t, buf.String())

	l = NewLoggerWithWriter(&buf, true)
	l.Debug("shown %d", 2)
	assert.Contains(t, buf.String(), "Debug: shown 2")
}

func TestBasicLogger_SplitsLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, false)
	l.Error("first\nsecond\n")

	out := buf.String()
	assert.Contains(t, out, "[Error] first")
	assert.Contains(t, out, "[Error] second")
}

func TestColoredLogger_Labels(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	l := NewColoredLogger(NewLoggerWithWriter(&buf, false))

	l.InfoWithActor(iface.ActorOwner, "staked %s", "pokt1owner")
	l.WarnWithActor(iface.ActorNetwork, "slow")

	out := buf.String()
	assert.Contains(t, out, "[OWNER] staked pokt1owner")
	assert.Contains(t, out, "[NETWORK] [WARN] slow")
}

func TestZapLogger_ActorField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLoggerFrom(zap.New(core))

	l.InfoWithActor(iface.ActorConfig, "rendered %s", "a.yaml")
	l.Info("")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "rendered a.yaml", entries[0].Message)
		assert.Equal(t, "CONFIG", entries[0].ContextMap()["actor"])
	}
}
