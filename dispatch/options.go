package dispatch

import (
	"go.uber.org/zap"

	"github.com/wippyai/xpbridge/marshal"
)

// Options configures dispatcher behavior.
type Options struct {
	// Logger overrides the package logger when set.
	Logger *zap.Logger
	Limits marshal.Limits
}

// DefaultOptions returns default dispatcher configuration.
func DefaultOptions() Options {
	return Options{
		Limits: marshal.DefaultLimits(),
	}
}
