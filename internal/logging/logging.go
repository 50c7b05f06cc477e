// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger construction.
type Options struct {
	// Verbose lowers the threshold to debug.
	Verbose bool

	// JSON emits structured JSON instead of the human console format.
	JSON bool

	// Output overrides the destination, stderr when nil.
	Output io.Writer
}

// New creates a logger for the CLI. The console format is the default since
// litsort is run by humans at a terminal; JSON is for driving it from
// scripts.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if !opts.JSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
