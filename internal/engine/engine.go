// Package engine defines the external synthesis collaborator: the blocking,
// GPU-bound call that dominates a job's runtime. Implementations are not
// safe for concurrent invocation; the scheduler guarantees a single caller.
package engine

import (
	"context"

	"ttsd/pkg/types"
)

// Engine produces an audio file for the given input and returns its path.
// Synthesize blocks until the output exists or an error occurs. It must not
// be invoked twice concurrently.
type Engine interface {
	Synthesize(ctx context.Context, input types.SynthesisInput) (resultPath string, err error)
}

// Func adapts a plain function to the Engine interface.
type Func func(ctx context.Context, input types.SynthesisInput) (string, error)

func (f Func) Synthesize(ctx context.Context, input types.SynthesisInput) (string, error) {
	return f(ctx, input)
}
