package driver

import (
	"context"
	"io"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/interpreter"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/stdlib"
)

// Options translates cfg into interpreter options with the default
// bindings table installed. A nil cfg selects the interpreter defaults.
func (c *Config) Options(ctx context.Context, stdout, stderr io.Writer) interpreter.Options {
	opts := interpreter.Options{
		Stdout:  stdout,
		Stderr:  stderr,
		Globals: stdlib.Globals,
		Context: ctx,
	}
	if c != nil {
		opts.Budget = interpreter.Budget{
			MaxCallDepth: c.Limits.MaxCallDepth,
			MaxTimerRuns: c.Limits.MaxTimerRuns,
			MaxSteps:     c.Limits.MaxSteps,
		}
	}
	return opts
}

// Run executes program under cfg and returns module.exports. The configured
// timeout, if any, is layered on top of ctx.
func Run(ctx context.Context, program *ast.Program, cfg *Config, stdout, stderr io.Writer) (runtime.Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg != nil && cfg.Limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Limits.Timeout)
		defer cancel()
	}
	var external map[string]any
	if cfg != nil && len(cfg.Globals) > 0 {
		external = make(map[string]any, len(cfg.Globals))
		for _, name := range cfg.GlobalOrder {
			external[name] = cfg.Globals[name]
		}
	}
	return interpreter.Execute(program, external, cfg.Options(ctx, stdout, stderr))
}
