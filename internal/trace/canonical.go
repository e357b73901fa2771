package trace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces the canonical JSON form of a call, used for
// content-addressed identity.
//
// Differences from json.Marshal(call):
//  1. Every string (literal values, names, class, method) is NFC normalized
//  2. No HTML escaping
//  3. No trailing newline
//
// Argument and member order is part of the identity and is preserved.
func MarshalCanonical(c Call) ([]byte, error) {
	nc := Call{
		No:     c.No,
		Class:  nfc(c.Class),
		Method: nfc(c.Method),
		Args:   make([]Arg, len(c.Args)),
	}
	for i, a := range c.Args {
		nc.Args[i] = Arg{Name: nfc(a.Name), Value: normalizeNode(a.Value)}
	}
	if c.Ret != nil {
		nc.Ret = normalizeNode(c.Ret)
	}

	w, err := toWire(nc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(w); err != nil {
		return nil, fmt.Errorf("canonical call %d: %w", c.No, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func toWire(c Call) (wireCall, error) {
	w := wireCall{
		No:     c.No,
		Class:  c.Class,
		Method: c.Method,
		Args:   make([]wireArg, len(c.Args)),
	}
	for i, a := range c.Args {
		data, err := MarshalNode(a.Value)
		if err != nil {
			return wireCall{}, fmt.Errorf("call %d arg %q: %w", c.No, a.Name, err)
		}
		w.Args[i] = wireArg{Name: a.Name, Value: data}
	}
	if c.Ret != nil {
		data, err := MarshalNode(c.Ret)
		if err != nil {
			return wireCall{}, fmt.Errorf("call %d ret: %w", c.No, err)
		}
		w.Ret = data
	}
	return w, nil
}

func normalizeNode(n Node) Node {
	switch v := n.(type) {
	case Literal:
		if s, ok := v.Value.(string); ok {
			return Literal{Value: nfc(s)}
		}
		return v
	case NamedConstant:
		return NamedConstant{Name: nfc(v.Name)}
	case Array:
		elems := make([]Node, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = normalizeNode(e)
		}
		return Array{Elements: elems}
	case Struct:
		members := make([]Member, len(v.Members))
		for i, m := range v.Members {
			members[i] = Member{Name: nfc(m.Name), Value: normalizeNode(m.Value)}
		}
		return Struct{Name: nfc(v.Name), Members: members}
	default:
		return n
	}
}

// nfc normalizes to Unicode NFC. ASCII input, the common case for driver
// traces, is returned unchanged.
func nfc(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return norm.NFC.String(s)
		}
	}
	return strings.Clone(s)
}
