package exec

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// Converter carries the format context for typed-scalar coercion: how
// textual timestamps and numbers are parsed. Callers supply it explicitly
// so coercion never depends on process-global settings.
type Converter struct {
	// TimeLayouts are tried in order when coercing a string to time.Time.
	TimeLayouts []string

	// DecimalSeparator is the radix character of textual numbers.
	DecimalSeparator string
}

// DefaultConverter returns the invariant format context: RFC 3339
// timestamps (with and without sub-second precision) and "." as the
// decimal separator.
func DefaultConverter() Converter {
	return Converter{
		TimeLayouts:      []string{time.RFC3339Nano, time.RFC3339, time.DateTime, time.DateOnly},
		DecimalSeparator: ".",
	}
}

// normalizeNumber rewrites a textual number into the form strconv expects.
func (c Converter) normalizeNumber(s string) string {
	sep := c.DecimalSeparator
	if sep == "" || sep == "." {
		return s
	}
	return strings.Replace(s, sep, ".", 1)
}

// Scalar is the set of types ScalarAs can coerce to.
type Scalar interface {
	~string | ~int32 | ~int64 | ~float64 | ~bool | time.Time | decimal.Decimal
}

// ScalarAs executes the descriptor through r.Scalar and coerces the raw
// value to T using the given format context. A value that cannot be
// coerced, including a null result, fails with an error wrapping
// dbexec.ErrConversion; such errors are never retried.
func ScalarAs[T Scalar](ctx context.Context, r *Runner, desc dbexec.CommandDescriptor, params *dbexec.ParameterSet, conv Converter) (T, error) {
	var zero T

	raw, err := r.Scalar(ctx, desc, params)
	if err != nil {
		return zero, err
	}

	return coerce[T](raw, conv)
}

func coerce[T Scalar](raw any, conv Converter) (T, error) {
	var zero T

	if raw == nil {
		return zero, fmt.Errorf("cannot convert null to %T: %w", zero, dbexec.ErrConversion)
	}
	if v, ok := raw.(T); ok {
		return v, nil
	}

	var out any
	var err error
	switch any(zero).(type) {
	case string:
		out, err = coerceString(raw)
	case int32:
		var n int64
		n, err = coerceInt64(raw, conv)
		if err == nil {
			if n < -1<<31 || n > 1<<31-1 {
				err = fmt.Errorf("value %d overflows int32", n)
			} else {
				out = int32(n)
			}
		}
	case int64:
		out, err = coerceInt64(raw, conv)
	case float64:
		out, err = coerceFloat64(raw, conv)
	case bool:
		out, err = coerceBool(raw)
	case time.Time:
		out, err = coerceTime(raw, conv)
	case decimal.Decimal:
		out, err = coerceDecimal(raw, conv)
	default:
		err = fmt.Errorf("unsupported target type %T", zero)
	}

	if err != nil {
		return zero, fmt.Errorf("cannot convert %T (%v) to %T: %v: %w", raw, raw, zero, err, dbexec.ErrConversion)
	}
	return out.(T), nil
}

func coerceString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

func coerceInt64(raw any, conv Converter) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case float64:
		n := int64(v)
		if float64(n) != v {
			return 0, fmt.Errorf("%v is not a whole number", v)
		}
		return n, nil
	case decimal.Decimal:
		if !v.IsInteger() {
			return 0, fmt.Errorf("%v is not a whole number", v)
		}
		return v.IntPart(), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(conv.normalizeNumber(v)), 10, 64)
	case []byte:
		return strconv.ParseInt(strings.TrimSpace(conv.normalizeNumber(string(v))), 10, 64)
	default:
		return 0, fmt.Errorf("no integer interpretation")
	}
}

func coerceFloat64(raw any, conv Converter) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case decimal.Decimal:
		f, _ := v.Float64()
		return f, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(conv.normalizeNumber(v)), 64)
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(conv.normalizeNumber(string(v))), 64)
	default:
		return 0, fmt.Errorf("no float interpretation")
	}
}

func coerceBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case int32:
		return v != 0, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	default:
		return false, fmt.Errorf("no boolean interpretation")
	}
}

func coerceTime(raw any, conv Converter) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range conv.TimeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("no layout matched %q", s)
	default:
		return time.Time{}, fmt.Errorf("no time interpretation")
	}
}

func coerceDecimal(raw any, conv Converter) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case decimal.Decimal:
		return v, nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		return decimal.NewFromString(strings.TrimSpace(conv.normalizeNumber(v)))
	case []byte:
		return decimal.NewFromString(strings.TrimSpace(conv.normalizeNumber(string(v))))
	default:
		return decimal.Decimal{}, fmt.Errorf("no decimal interpretation")
	}
}
