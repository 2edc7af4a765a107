// Package entity 定义领域实体
package entity

// FieldKind 字段类别，对应可移植 Schema 的六种类型
type FieldKind string

const (
	KindString  FieldKind = "string"
	KindInteger FieldKind = "integer"
	KindNumber  FieldKind = "number"
	KindBoolean FieldKind = "boolean"
	KindArray   FieldKind = "array"
	KindObject  FieldKind = "object"
)

// FieldSchema 单个字段的可移植描述
// 约定：EnumValues 非空仅限封闭取值集字段；MinValue/MaxValue 仅对数值类字段有意义。
type FieldSchema struct {
	Name         string    `json:"name"`
	Kind         FieldKind `json:"kind"`
	Description  string    `json:"description,omitempty"`
	Required     bool      `json:"required"`
	DefaultValue any       `json:"default_value,omitempty"`
	MinValue     *float64  `json:"min_value,omitempty"`
	MaxValue     *float64  `json:"max_value,omitempty"`
	EnumValues   []string  `json:"enum_values,omitempty"`
}

// IsEnum 是否为封闭取值集字段
func (f *FieldSchema) IsEnum() bool {
	return len(f.EnumValues) > 0
}

// IsNumeric 是否为数值类字段
func (f *FieldSchema) IsNumeric() bool {
	return f.Kind == KindInteger || f.Kind == KindNumber
}

// TypeSchema 目标类型的可移植描述
// 约定：Fields 的顺序稳定，同时决定 JSON 模板与提示词中的字段列举顺序。
type TypeSchema struct {
	TypeName    string        `json:"type_name"`
	Description string        `json:"description,omitempty"`
	Fields      []FieldSchema `json:"fields"`
}

// Field 按名称查找字段，不存在返回 nil
func (s *TypeSchema) Field(name string) *FieldSchema {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// EnumFields 返回全部封闭取值集字段
func (s *TypeSchema) EnumFields() []FieldSchema {
	var out []FieldSchema
	for _, f := range s.Fields {
		if f.IsEnum() {
			out = append(out, f)
		}
	}
	return out
}

// FieldNames 按声明顺序返回字段名
func (s *TypeSchema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}
