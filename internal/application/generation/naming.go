package generation

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// 候选名称键按优先级排列，覆盖常见的命名字段写法
var displayNameKeys = []string{
	"name",
	"displayName",
	"display_name",
	"itemName",
	"item_name",
	"title",
	"label",
}

// ExtractDisplayName 从原始对象片段中按候选键优先级提取展示名称。
// 纯文本提取，不经过类型化实例：目标类型可能根本不暴露名称字段。
// 一个都匹配不到时，用类型名加短唯一后缀合成。
func ExtractDisplayName(fragment, typeName string) string {
	for _, key := range displayNameKeys {
		if v, ok := extractStringField(fragment, key); ok && strings.TrimSpace(v) != "" {
			return SanitizeName(v)
		}
	}
	return SanitizeName(typeName + "_" + shortID())
}

// extractStringField 在片段中查找 "key" 后跟冒号与带引号的字符串值。
func extractStringField(fragment, key string) (string, bool) {
	needle := `"` + key + `"`
	from := 0
	for {
		idx := strings.Index(fragment[from:], needle)
		if idx < 0 {
			return "", false
		}
		pos := from + idx + len(needle)

		i := pos
		for i < len(fragment) && (fragment[i] == ' ' || fragment[i] == '\t' || fragment[i] == '\n' || fragment[i] == '\r') {
			i++
		}
		if i >= len(fragment) || fragment[i] != ':' {
			from = pos
			continue
		}
		i++
		for i < len(fragment) && (fragment[i] == ' ' || fragment[i] == '\t' || fragment[i] == '\n' || fragment[i] == '\r') {
			i++
		}
		if i >= len(fragment) || fragment[i] != '"' {
			// 值不是字符串，继续找下一处同名键
			from = pos
			continue
		}
		i++

		var b strings.Builder
		for i < len(fragment) {
			ch := fragment[i]
			if ch == '\\' && i+1 < len(fragment) {
				b.WriteByte(fragment[i+1])
				i += 2
				continue
			}
			if ch == '"' {
				return b.String(), true
			}
			b.WriteByte(ch)
			i++
		}
		return "", false
	}
}

// SanitizeName 把名称收敛为下游资产命名可接受的形式：
// 字母、数字、下划线、连字符之外的字符（空格在内）替换为下划线，数字开头则前置下划线。
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 1)
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" {
		return out
	}
	if r := []rune(out)[0]; unicode.IsDigit(r) {
		out = "_" + out
	}
	return out
}

func shortID() string {
	id := uuid.New().String()
	return id[:8]
}
