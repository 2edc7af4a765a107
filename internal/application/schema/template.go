package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"schemaforge-api/internal/domain/entity"
)

// JSONTemplate 按字段声明顺序生成示例 JSON 模板。
// 模板与 Describe 的字段清单共同构成模型响应必须满足的完整契约。
func JSONTemplate(s *entity.TypeSchema) string {
	if s == nil || len(s.Fields) == 0 {
		return "{}"
	}

	var b strings.Builder
	b.WriteString("{\n")
	for i, f := range s.Fields {
		b.WriteString("  ")
		b.WriteString(strconv.Quote(f.Name))
		b.WriteString(": ")
		b.WriteString(exampleValue(&f))
		if i < len(s.Fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

// exampleValue 字段示例值：枚举取第一个取值名，数值取声明下界，容器为空容器
func exampleValue(f *entity.FieldSchema) string {
	if f.IsEnum() {
		return strconv.Quote(f.EnumValues[0])
	}
	switch f.Kind {
	case entity.KindString:
		return `""`
	case entity.KindInteger:
		if f.MinValue != nil {
			return strconv.FormatInt(int64(*f.MinValue), 10)
		}
		return "0"
	case entity.KindNumber:
		if f.MinValue != nil {
			return strconv.FormatFloat(*f.MinValue, 'f', -1, 64)
		}
		return "0.0"
	case entity.KindBoolean:
		return "false"
	case entity.KindArray:
		return "[]"
	default:
		return "{}"
	}
}

// Describe 生成逐字段的可读清单：类别、区间、枚举取值与描述
func Describe(s *entity.TypeSchema) string {
	if s == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Type: %s\n", s.TypeName))
	if s.Description != "" {
		b.WriteString(s.Description)
		b.WriteString("\n")
	}
	for i := range s.Fields {
		f := &s.Fields[i]
		b.WriteString("- ")
		b.WriteString(f.Name)
		b.WriteString(" (")
		b.WriteString(string(f.Kind))
		if f.Required {
			b.WriteString(", required")
		}
		if f.IsNumeric() {
			switch {
			case f.MinValue != nil && f.MaxValue != nil:
				b.WriteString(fmt.Sprintf(", range %s..%s", formatNum(*f.MinValue), formatNum(*f.MaxValue)))
			case f.MinValue != nil:
				b.WriteString(fmt.Sprintf(", minimum %s", formatNum(*f.MinValue)))
			case f.MaxValue != nil:
				b.WriteString(fmt.Sprintf(", maximum %s", formatNum(*f.MaxValue)))
			}
		}
		if f.IsEnum() {
			b.WriteString(", one of: ")
			b.WriteString(strings.Join(f.EnumValues, " | "))
		}
		b.WriteString(")")
		if f.Description != "" {
			b.WriteString(": ")
			b.WriteString(f.Description)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ValidateTemplate 校验模板输出为合法 JSON（测试与注册时的自检入口）
func ValidateTemplate(s *entity.TypeSchema) error {
	if !json.Valid([]byte(JSONTemplate(s))) {
		return fmt.Errorf("json template for %s is not valid json", s.TypeName)
	}
	return nil
}
