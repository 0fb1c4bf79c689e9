// Package obslog provides the package-level logger shared by arena and
// cmd/idxpool-bench. It is modeled on cmd/hiveexplorer/logger: a *slog.Logger that
// discards everything until a caller opts in via Init.
package obslog

import (
	"io"
	"log/slog"
)

// L is the shared logger. Discards all output until Init is called.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

// Options configures Init.
type Options struct {
	// Handler receives log records once logging is enabled. If nil,
	// Init writes text-formatted records to os.Stderr.
	Handler slog.Handler
	Level   slog.Level
}

// Init installs a logging handler for the whole process. Call once, before
// the first Arena/Config operation, from the host application's main().
func Init(opts Options) {
	if opts.Handler != nil {
		L = slog.New(opts.Handler)
		return
	}
	L = slog.New(slog.NewTextHandler(defaultWriter(), &slog.HandlerOptions{Level: opts.Level}))
}

// Disable reverts to discarding all output.
func Disable() {
	L = slog.New(slog.NewTextHandler(io.Discard, nil))
}
