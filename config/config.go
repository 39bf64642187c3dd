// Package config loads the Machine's resource limits and I/O streams from
// the environment, for embedding hosts that want 12-factor-style
// configuration without writing their own flag parser.
package config

import (
	"io"
	"os"

	"github.com/caarlos0/env/v6"

	"github.com/sorthlang/gosorth/lang/interp"
)

// Options mirrors interp.Options' resource limits in a struct env/v6 can
// populate by reflection. Stdout/Stderr/Stdin have no sensible textual
// encoding and are never read from the environment; set them on the
// returned interp.Option slice's caller side instead.
type Options struct {
	MaxSteps          int `env:"SORTH_MAX_STEPS" envDefault:"0"`
	MaxCallDepth      int `env:"SORTH_MAX_CALL_DEPTH" envDefault:"0"`
	MaxDataStackDepth int `env:"SORTH_MAX_DATA_STACK_DEPTH" envDefault:"0"`
}

// FromEnv reads Options from the process environment, defaulting every
// limit to 0 (unlimited) when its variable is unset.
func FromEnv() (Options, error) {
	var o Options
	if err := env.Parse(&o); err != nil {
		return Options{}, err
	}
	return o, nil
}

// InterpOptions converts Options into the interp.Option values New expects,
// with stdout/stderr/stdin defaulted to the process streams.
func (o Options) InterpOptions() []interp.Option {
	return o.interpOptionsWith(os.Stdout, os.Stderr, os.Stdin)
}

// InterpOptionsWithStreams is InterpOptions but with explicit I/O streams,
// for hosts embedding the interpreter in a non-CLI context (tests, an
// in-process REPL, a network service).
func (o Options) InterpOptionsWithStreams(stdout, stderr io.Writer, stdin io.Reader) []interp.Option {
	return o.interpOptionsWith(stdout, stderr, stdin)
}

func (o Options) interpOptionsWith(stdout, stderr io.Writer, stdin io.Reader) []interp.Option {
	return []interp.Option{
		interp.WithMaxSteps(o.MaxSteps),
		interp.WithMaxCallDepth(o.MaxCallDepth),
		interp.WithMaxDataStackDepth(o.MaxDataStackDepth),
		interp.WithStdout(stdout),
		interp.WithStderr(stderr),
		interp.WithStdin(stdin),
	}
}
