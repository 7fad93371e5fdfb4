package exec

import (
	"context"

	"github.com/google/uuid"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// OpInfo identifies one logical operation flowing through the hook
// pipeline. The ID is shared by the Before and After calls of the same
// operation, which is what log correlation keys on.
type OpInfo struct {
	// ID uniquely identifies this operation invocation.
	ID uuid.UUID

	// Operation is the runner entry point: "non-query", "scalar" or "query".
	Operation string

	// Descriptor is the command being executed.
	Descriptor dbexec.CommandDescriptor

	// ParamCount is the number of parameters bound to the command.
	ParamCount int
}

// Hook is one named stage invoked synchronously around an operation.
// Before runs in registration order; a Before error aborts the operation,
// skips the remaining stages and skips every After. When all Before stages
// succeed, After runs in reverse registration order with the operation's
// result error, on success and failure alike.
type Hook struct {
	Name   string
	Before func(ctx context.Context, info OpInfo) error
	After  func(ctx context.Context, info OpInfo, err error)
}

// Pipeline is an ordered list of hooks.
type Pipeline []Hook

// Before invokes the Before stage of every hook in order, stopping at the
// first error.
func (p Pipeline) Before(ctx context.Context, info OpInfo) error {
	for _, h := range p {
		if h.Before == nil {
			continue
		}
		if err := h.Before(ctx, info); err != nil {
			return err
		}
	}
	return nil
}

// After invokes the After stage of every hook in reverse order.
func (p Pipeline) After(ctx context.Context, info OpInfo, err error) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].After != nil {
			p[i].After(ctx, info, err)
		}
	}
}

func newOpInfo(op string, desc dbexec.CommandDescriptor, params *dbexec.ParameterSet) OpInfo {
	return OpInfo{
		ID:         uuid.New(),
		Operation:  op,
		Descriptor: desc,
		ParamCount: params.Len(),
	}
}
