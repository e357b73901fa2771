package trace

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatCall renders a call in the one-line text form used for echoing:
//
//	2 pipe_screen::context_create(screen = 0x1000) = 0x2000
func FormatCall(c Call) string {
	var sb strings.Builder
	sb.WriteString(strconv.FormatUint(c.No, 10))
	sb.WriteByte(' ')
	sb.WriteString(c.QualifiedName())
	sb.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.Name)
		sb.WriteString(" = ")
		formatNode(&sb, a.Value)
	}
	sb.WriteByte(')')
	if c.Ret != nil {
		sb.WriteString(" = ")
		formatNode(&sb, c.Ret)
	}
	return sb.String()
}

// FormatNode renders a single argument tree.
func FormatNode(n Node) string {
	var sb strings.Builder
	formatNode(&sb, n)
	return sb.String()
}

func formatNode(sb *strings.Builder, n Node) {
	switch v := n.(type) {
	case Literal:
		formatLiteral(sb, v.Value)
	case NamedConstant:
		sb.WriteString(v.Name)
	case Array:
		sb.WriteByte('{')
		for i, e := range v.Elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			formatNode(sb, e)
		}
		sb.WriteByte('}')
	case Struct:
		sb.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(m.Name)
			sb.WriteString(" = ")
			formatNode(sb, m.Value)
		}
		sb.WriteByte('}')
	case Pointer:
		if v.Address == 0 {
			sb.WriteString("NULL")
			return
		}
		sb.WriteString(FormatAddress(v.Address))
	default:
		fmt.Fprintf(sb, "<%T>", n)
	}
}

func formatLiteral(sb *strings.Builder, v any) {
	switch val := v.(type) {
	case nil:
		sb.WriteString("NULL")
	case bool:
		sb.WriteString(strconv.FormatBool(val))
	case int64:
		sb.WriteString(strconv.FormatInt(val, 10))
	case uint64:
		sb.WriteString(strconv.FormatUint(val, 10))
	case float64:
		sb.WriteString(strconv.FormatFloat(val, 'g', -1, 64))
	case string:
		sb.WriteString(strconv.Quote(val))
	case []byte:
		fmt.Fprintf(sb, "blob(%d)", len(val))
	default:
		fmt.Fprintf(sb, "%v", val)
	}
}
