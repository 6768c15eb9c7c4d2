package strings

import (
	"strings"
)

// DefaultValueMaxLen is the widest status value shown in a table cell.
const DefaultValueMaxLen = 80

// MinTruncateLen is the minimum maxLen accepted by TruncateValue. It
// leaves room for one character plus "...".
const MinTruncateLen = 4

// TruncateValue collapses the whitespace of s into single spaces and cuts
// the result to maxLen runes, ending it with "..." when cut. Text content
// of status elements often spans indented lines; this keeps table cells on
// one line.
//
// maxLen values below MinTruncateLen are clamped.
func TruncateValue(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
