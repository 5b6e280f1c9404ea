package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pokt-ops/supplierkit/pkg/common/iface"
)

// ZapLogger emits one structured entry per call with the actor attached as a field.
type ZapLogger struct {
	log *zap.SugaredLogger
}

func NewZapLogger(verbose bool) *ZapLogger {
	var logger *zap.Logger

	if verbose {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}

	return &ZapLogger{log: logger.Sugar()}
}

// NewZapLoggerFrom wraps an existing zap logger. Used by tests with zaptest/observer.
func NewZapLoggerFrom(l *zap.Logger) *ZapLogger {
	return &ZapLogger{log: l.Sugar()}
}

func (l *ZapLogger) format(msg string, args ...any) string {
	return strings.Trim(fmt.Sprintf(msg, args...), "\n")
}

func (l *ZapLogger) TitleWithActor(actor iface.Actor, msg string, args ...any) {
	l.InfoWithActor(actor, msg, args...)
}

func (l *ZapLogger) InfoWithActor(actor iface.Actor, msg string, args ...any) {
	msg = l.format(msg, args...)
	if msg == "" {
		return
	}
	l.log.Infow(msg, "actor", string(actor))
}

func (l *ZapLogger) WarnWithActor(actor iface.Actor, msg string, args ...any) {
	msg = l.format(msg, args...)
	if msg == "" {
		return
	}
	l.log.Warnw(msg, "actor", string(actor))
}

func (l *ZapLogger) ErrorWithActor(actor iface.Actor, msg string, args ...any) {
	msg = l.format(msg, args...)
	if msg == "" {
		return
	}
	l.log.Errorw(msg, "actor", string(actor))
}

func (l *ZapLogger) DebugWithActor(actor iface.Actor, msg string, args ...any) {
	msg = l.format(msg, args...)
	if msg == "" {
		return
	}
	l.log.Debugw(msg, "actor", string(actor))
}

func (l *ZapLogger) Title(msg string, args ...any) {
	l.TitleWithActor(iface.ActorSystem, msg, args...)
}

func (l *ZapLogger) Info(msg string, args ...any) {
	l.InfoWithActor(iface.ActorSystem, msg, args...)
}

func (l *ZapLogger) Warn(msg string, args ...any) {
	l.WarnWithActor(iface.ActorSystem, msg, args...)
}

func (l *ZapLogger) Error(msg string, args ...any) {
	l.ErrorWithActor(iface.ActorSystem, msg, args...)
}

func (l *ZapLogger) Debug(msg string, args ...any) {
	l.DebugWithActor(iface.ActorSystem, msg, args...)
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.log.Sync()
}
