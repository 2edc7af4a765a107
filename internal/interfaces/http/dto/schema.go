package dto

import (
	"schemaforge-api/internal/domain/entity"
)

// FieldSchemaResponse 单字段描述
type FieldSchemaResponse struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Description string   `json:"description,omitempty"`
	Required    bool     `json:"required"`
	Default     any      `json:"default,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	EnumValues  []string `json:"enum_values,omitempty"`
}

// TypeSchemaResponse 类型描述，附带发给模型的模板与说明文本
type TypeSchemaResponse struct {
	TypeName    string                `json:"type_name"`
	Description string                `json:"description,omitempty"`
	Fields      []FieldSchemaResponse `json:"fields"`

	JSONTemplate      string `json:"json_template,omitempty"`
	SchemaDescription string `json:"schema_description,omitempty"`
}

// ToTypeSchemaResponse 转换领域 Schema
func ToTypeSchemaResponse(s *entity.TypeSchema, jsonTemplate, description string) *TypeSchemaResponse {
	fields := make([]FieldSchemaResponse, 0, len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		fields = append(fields, FieldSchemaResponse{
			Name:        f.Name,
			Kind:        string(f.Kind),
			Description: f.Description,
			Required:    f.Required,
			Default:     f.DefaultValue,
			Min:         f.MinValue,
			Max:         f.MaxValue,
			EnumValues:  f.EnumValues,
		})
	}
	return &TypeSchemaResponse{
		TypeName:          s.TypeName,
		Description:       s.Description,
		Fields:            fields,
		JSONTemplate:      jsonTemplate,
		SchemaDescription: description,
	}
}

// SchemaListResponse 已注册类型名列表
type SchemaListResponse struct {
	Types []string `json:"types"`
}
