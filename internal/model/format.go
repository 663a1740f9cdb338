package model

import (
	"strconv"
	"strings"
)

// FormatVariableType renders a variable's mode the way the hover/completion
// "detail" text displays it (e.g. "I 16 S", "A 32 S 16", "STATUS (OFF, ON)").
func FormatVariableType(v *Variable) string {
	switch v.Mode {
	case ModeInteger:
		return "I " + strconv.Itoa(v.Bits) + " " + signLetter(v.Signed)
	case ModeFixed:
		return "A " + strconv.Itoa(v.Bits) + " " + signLetter(v.Signed) + " " + strconv.Itoa(v.FracBits)
	case ModeFloat:
		return "F"
	case ModeBoolean:
		return "B"
	case ModeChar:
		return "H " + strconv.Itoa(v.CharLength)
	case ModeStatus:
		vals := v.StatusValues
		shown := vals
		suffix := ""
		if len(vals) > 3 {
			shown = vals[:3]
			suffix = "..."
		}
		return "STATUS (" + strings.Join(shown, ", ") + suffix + ")"
	default:
		return v.Mode.String()
	}
}

func signLetter(signed bool) string {
	if signed {
		return "S"
	}
	return "U"
}
