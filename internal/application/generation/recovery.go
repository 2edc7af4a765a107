// Package generation 实现结构化合成请求的应用服务：
// 提示词组装、LLM 调用、响应恢复与结果聚合。
package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"schemaforge-api/internal/application/schema"
	"schemaforge-api/internal/domain/entity"
	apperrors "schemaforge-api/pkg/errors"
	"schemaforge-api/pkg/logger"
)

// Recovered 是恢复引擎对单次响应的聚合输出。
// Diagnostics 记录被丢弃片段的原因，供调用方透传给客户端。
type Recovered struct {
	Items       []entity.GeneratedItem
	Diagnostics []string
}

// RecoveryEngine 将模型的自由文本响应恢复为零个或多个类型化实例。
// 流程：清理 Markdown 包裹 -> 顶层数组切分 -> 逐片段枚举归一化 + 结构化解析 -> 命名。
type RecoveryEngine struct{}

func NewRecoveryEngine() *RecoveryEngine {
	return &RecoveryEngine{}
}

// Recover 恢复 raw 中的条目。count 决定期望形态：1 为单对象，>1 为顶层数组。
// 终止性失败（空响应、单对象解析失败、数组无片段）返回错误；
// 多条目场景下的单片段失败只丢弃该片段并记录诊断。
func (e *RecoveryEngine) Recover(ctx context.Context, reg *schema.Registration, raw string, count int) (*Recovered, error) {
	if reg == nil || reg.Schema == nil {
		return nil, apperrors.ErrTypeNotRegistered
	}

	cleaned := CleanMarkdown(raw)
	if cleaned == "" {
		return nil, apperrors.ErrEmptyResponse
	}

	var fragments []string
	if count > 1 && strings.HasPrefix(cleaned, "[") {
		fragments = SplitTopLevelObjects(cleaned)
		if len(fragments) == 0 {
			// 非空响应切不出任何片段（常见于模型把数组包进了外层对象），按解析失败处理
			return nil, apperrors.New(apperrors.CodeParseFailed, "llm response parse failed").
				WithDetail("no object fragments found in array response")
		}
	} else {
		fragments = []string{cleaned}
	}

	out := &Recovered{}
	for i, frag := range fragments {
		item, err := e.recoverOne(reg, frag)
		if err != nil {
			if count <= 1 {
				return nil, apperrors.New(apperrors.CodeParseFailed, "llm response parse failed").
					WithDetail(err.Error())
			}
			diag := fmt.Sprintf("element %d dropped: %v", i, err)
			out.Diagnostics = append(out.Diagnostics, diag)
			logger.Warn(ctx, "response fragment dropped",
				"type_name", reg.Schema.TypeName,
				"index", i,
				"error", err.Error(),
			)
			continue
		}
		out.Items = append(out.Items, *item)
	}

	return out, nil
}

// recoverOne 处理单个对象片段。命名从归一化前的原始片段提取：
// 目标类型未必暴露名称字段，文本提取不依赖类型结构。
func (e *RecoveryEngine) recoverOne(reg *schema.Registration, fragment string) (*entity.GeneratedItem, error) {
	normalized := NormalizeEnums(fragment, reg.Schema)

	inst := reg.NewInstance()
	if err := json.Unmarshal([]byte(normalized), inst); err != nil {
		return nil, fmt.Errorf("structured parse: %w", err)
	}

	name := ExtractDisplayName(fragment, reg.Schema.TypeName)

	return &entity.GeneratedItem{
		Name:  name,
		Value: inst,
		JSON:  json.RawMessage(normalized),
	}, nil
}

// CleanMarkdown 去掉模型响应外层的 Markdown 代码栅栏。
// 开头的栅栏连同语言标记一起丢到首个换行；没有换行时直接跳到首个 { 或 [。
func CleanMarkdown(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			obj := strings.IndexByte(s, '{')
			arr := strings.IndexByte(s, '[')
			switch {
			case obj >= 0 && (arr < 0 || obj < arr):
				s = s[obj:]
			case arr >= 0:
				s = s[arr:]
			default:
				return ""
			}
		}
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

// SplitTopLevelObjects 把顶层 JSON 数组切成逐对象的文本片段。
// 专用扫描器而非完整解析器：维护字符串模式、转义前瞻和花括号深度，
// 深度归零即输出一个完整元素。引号内的逗号与花括号不会造成错误切分。
func SplitTopLevelObjects(s string) []string {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return nil
	}

	var (
		fragments []string
		depth     int
		elemStart = -1
		inString  bool
		escaped   bool
	)
	for i := start + 1; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				if depth == 0 {
					elemStart = i
				}
				depth++
			}
		case '}':
			if !inString && depth > 0 {
				depth--
				if depth == 0 && elemStart >= 0 {
					fragments = append(fragments, s[elemStart:i+1])
					elemStart = -1
				}
			}
		case ']':
			if !inString && depth == 0 {
				return fragments
			}
		}
	}
	return fragments
}

// NormalizeEnums 把枚举字段的可读值名替换为其声明序号。
// 目标类型的枚举字段以整数反序列化，而模型天然输出名称文本。
// 替换是尽力而为的：匹配不上的字段或值保持原样，由结构化解析阶段兜底失败。
func NormalizeEnums(fragment string, s *entity.TypeSchema) string {
	if s == nil {
		return fragment
	}
	out := fragment
	for _, f := range s.Fields {
		// 仅整数底层的封闭取值集需要序号替换；字符串枚举按原文解析
		if !f.IsEnum() || f.Kind != entity.KindInteger {
			continue
		}
		for ordinal, valueName := range f.EnumValues {
			repl := `"` + f.Name + `":` + strconv.Itoa(ordinal)
			out = strings.ReplaceAll(out, `"`+f.Name+`":"`+valueName+`"`, repl)
			out = strings.ReplaceAll(out, `"`+f.Name+`": "`+valueName+`"`, repl)
		}
	}
	return out
}
