package model

import "schemaforge-api/internal/domain/entity"

// SynthesisInput 一次结构化数据合成调用的全部输入。
// SchemaDescription / JSONTemplate 由 Schema 提取器预先生成，
// ExistingNames / ExistingJSON 按已解析的查重策略二选一填充。
type SynthesisInput struct {
	TypeName          string
	SchemaDescription string
	JSONTemplate      string

	Count   int
	Context string

	Strategy      entity.DuplicateStrategy
	ExistingNames []string
	ExistingJSON  []string

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}
