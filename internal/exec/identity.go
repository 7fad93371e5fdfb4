package exec

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// identityScalar runs the connector's identity query. Requires the
// connector to implement dbexec.IdentityQuerier.
func (r *Runner) identityScalar(ctx context.Context) (any, error) {
	iq, ok := r.connector.(dbexec.IdentityQuerier)
	if !ok {
		return nil, fmt.Errorf("connector %T does not support identity retrieval: %w", r.connector, dbexec.ErrUnknownDriver)
	}
	return r.Scalar(ctx, iq.IdentityDescriptor(), nil)
}

// IdentityInt32 retrieves the last inserted identity as an int32.
func (r *Runner) IdentityInt32(ctx context.Context) (int32, error) {
	raw, err := r.identityScalar(ctx)
	if err != nil {
		return 0, err
	}
	return coerce[int32](raw, DefaultConverter())
}

// IdentityInt64 retrieves the last inserted identity as an int64.
func (r *Runner) IdentityInt64(ctx context.Context) (int64, error) {
	raw, err := r.identityScalar(ctx)
	if err != nil {
		return 0, err
	}
	return coerce[int64](raw, DefaultConverter())
}

// IdentityDecimal retrieves the last inserted identity as an exact numeric.
func (r *Runner) IdentityDecimal(ctx context.Context) (decimal.Decimal, error) {
	raw, err := r.identityScalar(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return coerce[decimal.Decimal](raw, DefaultConverter())
}
