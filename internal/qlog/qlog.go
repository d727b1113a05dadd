// Package qlog is the structured-logging wrapper the whole module logs
// through: a context-carried *logrus.Logger pattern, with a package-level
// default plus WithLogger/FromContext for call sites that have a context
// to thread a request-scoped logger through.
package qlog

import (
	"context"

	"github.com/sirupsen/logrus"
)

// L is the package-wide default logger, used by call sites with no
// context available (e.g. package-level helpers).
var L = logrus.StandardLogger()

type contextKey struct{}

// WithLogger returns a new context carrying logger, for use in combination
// with logger.WithField(s).
func WithLogger(ctx context.Context, logger *logrus.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger carried in ctx, or L if none was set.
func FromContext(ctx context.Context) *logrus.Logger {
	l, ok := ctx.Value(contextKey{}).(*logrus.Logger)
	if !ok || l == nil {
		return L
	}
	return l
}

// Level names accepted by SetLevel, matching logrus's own vocabulary.
var Levels = map[string]logrus.Level{
	"panic": logrus.PanicLevel,
	"fatal": logrus.FatalLevel,
	"error": logrus.ErrorLevel,
	"warn":  logrus.WarnLevel,
	"info":  logrus.InfoLevel,
	"debug": logrus.DebugLevel,
	"trace": logrus.TraceLevel,
}

// SetLevel configures L's verbosity from a level name; unrecognized names
// are ignored, leaving the current level unchanged.
func SetLevel(name string) {
	if lvl, ok := Levels[name]; ok {
		L.SetLevel(lvl)
	}
}
