package engine

import (
	"errors"
	"fmt"

	"github.com/bitrig/bitrig-xenocara/internal/pipe"
	"github.com/bitrig/bitrig-xenocara/internal/trace"
)

// Translator converts argument trees into native values.
//
//   - Literal → its value unchanged (nil, bool, int64, uint64, float64,
//     string or []byte)
//   - NamedConstant → uint64 from the pipe constant table
//   - Array → []any in the same order
//   - Pointer → the object registered at the address; address 0 is nil
//   - Struct → a pipe.Struct when the type has a factory, *Bag otherwise
//
// Translation has no side effects.
type Translator struct {
	objects *ObjectTable
}

// NewTranslator creates a Translator resolving pointers against objects.
func NewTranslator(objects *ObjectTable) *Translator {
	return &Translator{objects: objects}
}

// Translate converts one node.
func (t *Translator) Translate(n trace.Node) (any, error) {
	switch v := n.(type) {
	case trace.Literal:
		return v.Value, nil

	case trace.NamedConstant:
		c, ok := pipe.LookupConstant(v.Name)
		if !ok {
			return nil, newError(ErrCodeUnknownConstant, "unknown constant %s", v.Name)
		}
		return c, nil

	case trace.Array:
		out := make([]any, len(v.Elements))
		for i, e := range v.Elements {
			val, err := t.Translate(e)
			if err != nil {
				return nil, prefixError(err, fmt.Sprintf("[%d]", i))
			}
			out[i] = val
		}
		return out, nil

	case trace.Pointer:
		if v.Address == 0 {
			return nil, nil
		}
		return t.objects.Lookup(v.Address)

	case trace.Struct:
		return t.translateStruct(v)

	case nil:
		return nil, badArgument("missing value")
	}
	return nil, badArgument("unsupported node %T", n)
}

func (t *Translator) translateStruct(node trace.Struct) (any, error) {
	s, typed := pipe.NewStruct(node.Name)
	var bag *Bag
	if !typed {
		bag = NewBag(node.Name)
	}

	for _, m := range node.Members {
		val, err := t.Translate(m.Value)
		if err != nil {
			return nil, prefixError(err, node.Name+"."+m.Name)
		}

		if af, ok := pipe.MemberArray(node.Name, m.Name); ok {
			val, err = convertArray(af, val)
			if err != nil {
				return nil, prefixError(err, node.Name+"."+m.Name)
			}
		}

		if bag != nil {
			bag.Set(m.Name, val)
			continue
		}
		if err := s.SetMember(m.Name, val); err != nil {
			return nil, memberError(node.Name, m.Name, err)
		}
	}

	if bag != nil {
		return bag, nil
	}
	return s, nil
}

func convertArray(af pipe.ArrayFactory, val any) (any, error) {
	list, ok := val.([]any)
	if !ok {
		return nil, badArgument("expected array of %s, got %T", af.Elem, val)
	}
	if len(list) > af.Len {
		return nil, newError(ErrCodeArityMismatch, "%d elements for %s[%d]", len(list), af.Elem, af.Len)
	}
	arr, err := af.Make(list, af.Len)
	if err != nil {
		return nil, &ReplayError{Code: ErrCodeBadArgument, Message: "array conversion", Err: err}
	}
	return arr, nil
}

func memberError(structName, member string, err error) error {
	if errors.Is(err, pipe.ErrUnknownMember) {
		return newError(ErrCodeUnknownMember, "%s has no member %s", structName, member)
	}
	return &ReplayError{
		Code:    ErrCodeBadArgument,
		Message: fmt.Sprintf("%s.%s", structName, member),
		Err:     err,
	}
}

// prefixError prepends where to the message of a ReplayError, keeping
// its code.
func prefixError(err error, where string) error {
	var re *ReplayError
	if !errors.As(err, &re) {
		return fmt.Errorf("%s: %w", where, err)
	}
	cp := *re
	cp.Message = where + ": " + re.Message
	return &cp
}
