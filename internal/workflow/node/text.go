package node

import "unicode/utf8"

// TruncateByRunes 按 rune 数截断，保证不会切出半个多字节字符
func TruncateByRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	seen := 0
	for i := range s {
		if seen == maxRunes {
			return s[:i]
		}
		seen++
	}
	return s
}
