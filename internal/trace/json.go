package trace

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// JSON form of a node. Exactly one discriminating key is present:
//
//	{"lit": null | true | 42 | -1 | 0.5 | "text"}
//	{"bytes": "00ff10"}
//	{"const": "PIPE_FORMAT_B8G8R8A8_UNORM"}
//	{"array": [node, ...]}
//	{"struct": "pipe_box", "members": [{"name": "x", "value": node}, ...]}
//	{"ptr": "0x1000"}
//
// Integer literals decode to int64 when they fit and uint64 otherwise.
// Numbers containing '.', 'e' or 'E' decode to float64.

// MarshalNode encodes a node to JSON.
func MarshalNode(n Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeNode(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeNode(buf *bytes.Buffer, n Node) error {
	switch v := n.(type) {
	case Literal:
		if b, ok := v.Value.([]byte); ok {
			buf.WriteString(`{"bytes":"`)
			buf.WriteString(hex.EncodeToString(b))
			buf.WriteString(`"}`)
			return nil
		}
		buf.WriteString(`{"lit":`)
		if err := writeScalar(buf, v.Value); err != nil {
			return err
		}
		buf.WriteByte('}')
	case NamedConstant:
		buf.WriteString(`{"const":`)
		writeString(buf, v.Name)
		buf.WriteByte('}')
	case Array:
		buf.WriteString(`{"array":[`)
		for i, elem := range v.Elements {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeNode(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteString(`]}`)
	case Struct:
		buf.WriteString(`{"struct":`)
		writeString(buf, v.Name)
		buf.WriteString(`,"members":[`)
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(`{"name":`)
			writeString(buf, m.Name)
			buf.WriteString(`,"value":`)
			if err := writeNode(buf, m.Value); err != nil {
				return fmt.Errorf("%s.%s: %w", v.Name, m.Name, err)
			}
			buf.WriteByte('}')
		}
		buf.WriteString(`]}`)
	case Pointer:
		buf.WriteString(`{"ptr":"`)
		buf.WriteString(FormatAddress(v.Address))
		buf.WriteString(`"}`)
	case nil:
		return fmt.Errorf("nil node")
	default:
		return fmt.Errorf("unknown node type: %T", n)
	}
	return nil
}

func writeScalar(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(val, 10))
	case float64:
		s, err := formatFloat(val)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case string:
		writeString(buf, val)
	default:
		return fmt.Errorf("unsupported literal type: %T", v)
	}
	return nil
}

// formatFloat renders f so that it decodes back as a float (never as an
// integer literal).
func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("non-finite float %v cannot be encoded", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s, nil
}

func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	// Encoder appends a newline
	buf.Truncate(buf.Len() - 1)
}

// UnmarshalNode decodes the JSON form of a node.
func UnmarshalNode(data []byte) (Node, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("node: %w", err)
	}

	if v, ok := raw["lit"]; ok {
		val, err := decodeScalar(v)
		if err != nil {
			return nil, err
		}
		return Literal{Value: val}, nil
	}
	if v, ok := raw["bytes"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, fmt.Errorf("bytes: %w", err)
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("bytes: %w", err)
		}
		return Literal{Value: b}, nil
	}
	if v, ok := raw["const"]; ok {
		var name string
		if err := json.Unmarshal(v, &name); err != nil {
			return nil, fmt.Errorf("const: %w", err)
		}
		return NamedConstant{Name: name}, nil
	}
	if v, ok := raw["array"]; ok {
		var elems []json.RawMessage
		if err := json.Unmarshal(v, &elems); err != nil {
			return nil, fmt.Errorf("array: %w", err)
		}
		arr := Array{Elements: make([]Node, len(elems))}
		for i, e := range elems {
			n, err := UnmarshalNode(e)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr.Elements[i] = n
		}
		return arr, nil
	}
	if v, ok := raw["struct"]; ok {
		return decodeStruct(v, raw["members"])
	}
	if v, ok := raw["ptr"]; ok {
		addr, err := decodeAddress(v)
		if err != nil {
			return nil, err
		}
		return Pointer{Address: addr}, nil
	}
	return nil, fmt.Errorf("node: no discriminating key in %s", string(data))
}

type wireMember struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

func decodeStruct(nameData, membersData json.RawMessage) (Node, error) {
	var name string
	if err := json.Unmarshal(nameData, &name); err != nil {
		return nil, fmt.Errorf("struct: %w", err)
	}
	var members []wireMember
	if len(membersData) > 0 {
		if err := json.Unmarshal(membersData, &members); err != nil {
			return nil, fmt.Errorf("struct %s members: %w", name, err)
		}
	}
	s := Struct{Name: name, Members: make([]Member, len(members))}
	for i, m := range members {
		n, err := UnmarshalNode(m.Value)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, m.Name, err)
		}
		s.Members[i] = Member{Name: m.Name, Value: n}
	}
	return s, nil
}

func decodeScalar(data json.RawMessage) (any, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty literal")
	}
	switch data[0] {
	case 'n':
		return nil, nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return b, nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return s, nil
	}

	s := string(data)
	if strings.ContainsAny(s, ".eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("literal %s: %w", s, err)
		}
		return f, nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("literal %s: %w", s, err)
	}
	return u, nil
}

func decodeAddress(data json.RawMessage) (uint64, error) {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, fmt.Errorf("ptr: %w", err)
		}
		return ParseAddress(s)
	}
	u, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ptr: %w", err)
	}
	return u, nil
}

// FormatAddress renders an address the way traces record it ("0x1000").
func FormatAddress(addr uint64) string {
	return "0x" + strconv.FormatUint(addr, 16)
}

// ParseAddress parses "0x1000", "4096" or "NULL".
func ParseAddress(s string) (uint64, error) {
	if s == "NULL" {
		return 0, nil
	}
	u, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return u, nil
}

type wireArg struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

type wireCall struct {
	No     uint64          `json:"no"`
	Class  string          `json:"class,omitempty"`
	Method string          `json:"method"`
	Args   []wireArg       `json:"args"`
	Ret    json.RawMessage `json:"ret,omitempty"`
}

// MarshalJSON implements json.Marshaler for Call.
func (c Call) MarshalJSON() ([]byte, error) {
	w, err := toWire(c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler for Call.
func (c *Call) UnmarshalJSON(data []byte) error {
	var w wireCall
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Method == "" {
		return fmt.Errorf("call %d: method is required", w.No)
	}

	call := Call{
		No:     w.No,
		Class:  w.Class,
		Method: w.Method,
		Args:   make([]Arg, len(w.Args)),
	}
	for i, a := range w.Args {
		n, err := UnmarshalNode(a.Value)
		if err != nil {
			return fmt.Errorf("call %d arg %q: %w", w.No, a.Name, err)
		}
		call.Args[i] = Arg{Name: a.Name, Value: n}
	}
	if len(w.Ret) > 0 && string(w.Ret) != "null" {
		n, err := UnmarshalNode(w.Ret)
		if err != nil {
			return fmt.Errorf("call %d ret: %w", w.No, err)
		}
		call.Ret = n
	}

	*c = call
	return nil
}
