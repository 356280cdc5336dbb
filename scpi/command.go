package scpi

import (
	"fmt"
	"strconv"
	"strings"
)

// Set builds the set form of a command: the header followed by its space separated arguments.
//
//	Set("INPU1:THRE", 0.5) // "INPU1:THRE 0.5"
func Set(header string, args ...any) string {
	if len(args) == 0 {
		return header
	}

	var sb strings.Builder
	sb.WriteString(header)
	for i, arg := range args {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteByte(',')
		}
		sb.WriteString(FormatValue(arg))
	}

	return sb.String()
}

// Query builds the query form of a command header.
//
//	Query("INPU1:COUN") // "INPU1:COUN?"
func Query(header string) string {
	return header + "?"
}

// IsQuery reports whether the first command of cmd is a query.
func IsQuery(cmd string) bool {
	first, _, _ := strings.Cut(cmd, ";")
	first, _, _ = strings.Cut(strings.TrimSpace(first), " ")

	return strings.HasSuffix(first, "?")
}

// Header returns the index-free header of the first command in cmd, used to group commands
// by mnemonic regardless of the addressed block.
//
//	Header("TSCO5:WIND:BEGIN:DELAY 1000") // "TSCO:WIND:BEGIN:DELAY"
//	Header("INPU1:COUN?")                 // "INPU:COUN"
func Header(cmd string) string {
	first, _, _ := strings.Cut(cmd, ";")
	first, _, _ = strings.Cut(strings.TrimSpace(first), " ")
	first = strings.TrimPrefix(strings.TrimSuffix(first, "?"), ":")
	if first == "" {
		return ""
	}

	nodes := strings.Split(first, ":")
	for i, node := range nodes {
		nodes[i] = strings.ToUpper(strings.TrimRight(node, "0123456789"))
	}

	return strings.Join(nodes, ":")
}

// FormatValue renders a command argument in the instrument's grammar.
// Floats use the shortest representation without exponent.
func FormatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case bool:
		if val {
			return "ON"
		}
		return "OFF"
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
