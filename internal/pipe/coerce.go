package pipe

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownMember is returned by SetMember when a structure has no member
// of the given name.
var ErrUnknownMember = errors.New("unknown member")

// ErrTypeMismatch is returned when a value cannot be stored in a member.
var ErrTypeMismatch = errors.New("type mismatch")

func unknownMember(s Struct, name string) error {
	return fmt.Errorf("%w: %s has no member %q", ErrUnknownMember, s.StructName(), name)
}

func mismatch(want string, v any) error {
	return fmt.Errorf("%w: cannot use %T as %s", ErrTypeMismatch, v, want)
}

// ToUint converts a translated scalar to an unsigned integer.
// Booleans convert to 0/1 and nil to 0; negative or fractional values fail.
func ToUint(v any) (uint64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case uint64:
		return x, nil
	case int64:
		if x < 0 {
			return 0, fmt.Errorf("%w: negative value %d for unsigned", ErrTypeMismatch, x)
		}
		return uint64(x), nil
	case float64:
		if x < 0 || x != math.Trunc(x) {
			return 0, fmt.Errorf("%w: %v is not an unsigned integer", ErrTypeMismatch, x)
		}
		return uint64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	}
	return 0, mismatch("unsigned", v)
}

// ToInt converts a translated scalar to a signed integer.
func ToInt(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return x, nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", ErrTypeMismatch, x)
		}
		return int64(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrTypeMismatch, x)
		}
		return int64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	}
	return 0, mismatch("int", v)
}

// ToFloat converts a translated scalar to a float.
func ToFloat(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	}
	return 0, mismatch("float", v)
}

// ToBool converts a translated scalar to a boolean. Integers are true when
// non-zero.
func ToBool(v any) (bool, error) {
	switch x := v.(type) {
	case nil:
		return false, nil
	case bool:
		return x, nil
	case int64:
		return x != 0, nil
	case uint64:
		return x != 0, nil
	}
	return false, mismatch("bool", v)
}

func setUint(dst *uint32, v any) error {
	u, err := ToUint(v)
	if err != nil {
		return err
	}
	if u > math.MaxUint32 {
		return fmt.Errorf("%w: %d overflows uint32", ErrTypeMismatch, u)
	}
	*dst = uint32(u)
	return nil
}

func setInt(dst *int32, v any) error {
	i, err := ToInt(v)
	if err != nil {
		return err
	}
	if i < math.MinInt32 || i > math.MaxInt32 {
		return fmt.Errorf("%w: %d overflows int32", ErrTypeMismatch, i)
	}
	*dst = int32(i)
	return nil
}

func setFloat(dst *float32, v any) error {
	f, err := ToFloat(v)
	if err != nil {
		return err
	}
	*dst = float32(f)
	return nil
}

func setBool(dst *bool, v any) error {
	b, err := ToBool(v)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

func setFormat(dst *Format, v any) error {
	u, err := ToUint(v)
	if err != nil {
		return err
	}
	*dst = Format(u)
	return nil
}

// setFloats copies a FloatArray (or a plain translated list) into dst.
func setFloats(dst []float32, v any) error {
	switch x := v.(type) {
	case FloatArray:
		if len(x) > len(dst) {
			return fmt.Errorf("%w: %d floats, want at most %d", ErrTypeMismatch, len(x), len(dst))
		}
		clear(dst)
		copy(dst, x)
		return nil
	case []any:
		arr, err := makeFloatArray(x, len(dst))
		if err != nil {
			return err
		}
		copy(dst, arr.(FloatArray))
		return nil
	}
	return mismatch("float array", v)
}

func setUints(dst []uint32, v any) error {
	switch x := v.(type) {
	case UnsignedArray:
		if len(x) > len(dst) {
			return fmt.Errorf("%w: %d values, want at most %d", ErrTypeMismatch, len(x), len(dst))
		}
		clear(dst)
		copy(dst, x)
		return nil
	case []any:
		arr, err := makeUnsignedArray(x, len(dst))
		if err != nil {
			return err
		}
		copy(dst, arr.(UnsignedArray))
		return nil
	}
	return mismatch("unsigned array", v)
}
