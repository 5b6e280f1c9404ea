package logger

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/pokt-ops/supplierkit/pkg/common/iface"
)

var (
	actorColors = map[iface.Actor]*color.Color{
		iface.ActorSystem:    color.New(color.FgBlue),
		iface.ActorOwner:     color.New(color.FgGreen),
		iface.ActorOperator:  color.New(color.FgCyan),
		iface.ActorConfig:    color.New(color.FgYellow),
		iface.ActorNetwork:   color.New(color.FgHiMagenta),
		iface.ActorTelemetry: color.New(color.FgMagenta),
	}
	levelColors = map[string]*color.Color{
		"ERROR": color.New(color.FgRed),
		"WARN":  color.New(color.FgHiYellow),
		"DEBUG": color.New(color.FgHiBlack),
		"TITLE": color.New(color.Bold),
	}
)

// ColoredLogger wraps an existing logger and adds color-coded actor-based logging
type ColoredLogger struct {
	base iface.Logger
}

// NewColoredLogger creates a new colored logger that wraps the provided base logger
func NewColoredLogger(base iface.Logger) *ColoredLogger {
	return &ColoredLogger{
		base: base,
	}
}

// formatMessage formats a message with actor color and label
func (c *ColoredLogger) formatMessage(actor iface.Actor, level string, msg string, args ...any) string {
	formatted := fmt.Sprintf(msg, args...)

	label := "[" + string(actor) + "]"
	if ac, ok := actorColors[actor]; ok {
		label = ac.Sprint(label)
	}

	lc, ok := levelColors[level]
	if !ok {
		return fmt.Sprintf("%s %s", label, formatted)
	}
	if level == "TITLE" {
		return fmt.Sprintf("%s %s", label, lc.Sprint(formatted))
	}
	return fmt.Sprintf("%s %s %s", label, lc.Sprint("["+level+"]"), formatted)
}

func (c *ColoredLogger) Title(msg string, args ...any) {
	c.base.Title(msg, args...)
}

func (c *ColoredLogger) Info(msg string, args ...any) {
	c.base.Info(msg, args...)
}

func (c *ColoredLogger) Warn(msg string, args ...any) {
	c.base.Warn(msg, args...)
}

func (c *ColoredLogger) Error(msg string, args ...any) {
	c.base.Error(msg, args...)
}

func (c *ColoredLogger) Debug(msg string, args ...any) {
	c.base.Debug(msg, args...)
}

// Actor-based colored methods
func (c *ColoredLogger) TitleWithActor(actor iface.Actor, msg string, args ...any) {
	formatted := c.formatMessage(actor, "TITLE", msg, args...)

	lines := strings.Split("\n"+formatted+"\n", "\n")
	for _, line := range lines {
		c.base.Info("%s", line)
	}
}

func (c *ColoredLogger) InfoWithActor(actor iface.Actor, msg string, args ...any) {
	c.base.Info("%s", c.formatMessage(actor, "INFO", msg, args...))
}

func (c *ColoredLogger) WarnWithActor(actor iface.Actor, msg string, args ...any) {
	c.base.Info("%s", c.formatMessage(actor, "WARN", msg, args...))
}

func (c *ColoredLogger) ErrorWithActor(actor iface.Actor, msg string, args ...any) {
	c.base.Info("%s", c.formatMessage(actor, "ERROR", msg, args...))
}

func (c *ColoredLogger) DebugWithActor(actor iface.Actor, msg string, args ...any) {
	// debug lines obey the base logger's verbosity
	c.base.Debug("%s", c.formatMessage(actor, "DEBUG", msg, args...))
}
