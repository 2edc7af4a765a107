package node

import (
	"fmt"
	"strings"

	"schemaforge-api/internal/domain/entity"
	wfmodel "schemaforge-api/internal/workflow/model"
)

// BuildSchemaBlock 条目 Schema 描述段
func BuildSchemaBlock(in *wfmodel.SynthesisInput) string {
	desc := strings.TrimSpace(in.SchemaDescription)
	if desc == "" {
		return ""
	}
	return "Item schema:\n" + desc
}

// BuildTemplateBlock JSON 模板段
func BuildTemplateBlock(in *wfmodel.SynthesisInput) string {
	tpl := strings.TrimSpace(in.JSONTemplate)
	if tpl == "" {
		return ""
	}
	return "JSON template for a single item:\n" + tpl
}

// BuildExistingItemsBlock 已有条目段。
// 注入内容由已解析的查重策略决定：ignore 不注入，names_only 仅显示名列表，
// full_composition 注入完整条目 JSON。
func BuildExistingItemsBlock(in *wfmodel.SynthesisInput) string {
	switch in.Strategy {
	case entity.StrategyNamesOnly:
		if len(in.ExistingNames) == 0 {
			return ""
		}
		lines := make([]string, 0, len(in.ExistingNames)+1)
		lines = append(lines, "Existing items (by name):")
		for _, name := range in.ExistingNames {
			if name = strings.TrimSpace(name); name != "" {
				lines = append(lines, "- "+name)
			}
		}
		if len(lines) == 1 {
			return ""
		}
		return strings.Join(lines, "\n")

	case entity.StrategyFullComposition:
		if len(in.ExistingJSON) == 0 {
			return ""
		}
		lines := make([]string, 0, len(in.ExistingJSON)+1)
		lines = append(lines, "Existing items (full JSON):")
		for _, raw := range in.ExistingJSON {
			if raw = strings.TrimSpace(raw); raw != "" {
				lines = append(lines, raw)
			}
		}
		if len(lines) == 1 {
			return ""
		}
		return strings.Join(lines, "\n")

	default:
		return ""
	}
}

// BuildContextBlock 自由文本上下文段，超长按 rune 截断
func BuildContextBlock(in *wfmodel.SynthesisInput, maxRunes int) string {
	ctx := strings.TrimSpace(in.Context)
	if ctx == "" {
		return ""
	}
	if maxRunes > 0 {
		ctx = TruncateByRunes(ctx, maxRunes)
	}
	return "Additional context:\n" + ctx
}

// BuildRequestBlock 请求段：明确条目数与期望的 JSON 形态
func BuildRequestBlock(in *wfmodel.SynthesisInput) string {
	if in.Count == 1 {
		return fmt.Sprintf("Generate exactly 1 %s item. Respond with a single JSON object.", in.TypeName)
	}
	return fmt.Sprintf(
		"Generate exactly %d %s items. Respond with a single top-level JSON array containing exactly %d objects.",
		in.Count, in.TypeName, in.Count,
	)
}

// BuildReminderBlock 结尾提醒段：重复区间与枚举约束；注入过已有条目时追加去重指令
func BuildReminderBlock(in *wfmodel.SynthesisInput, hasExisting bool) string {
	lines := []string{
		"Reminders:",
		"- Use exactly the field names from the JSON template.",
		"- Keep numeric values inside their declared ranges.",
		"- Enum fields must use one of the listed values, spelled exactly as given.",
		"- Output raw JSON only, without markdown fences or commentary.",
	}
	if hasExisting {
		lines = append(lines, "- Do not duplicate any of the existing items listed above.")
	}
	return strings.Join(lines, "\n")
}

// JoinBlocks 按固定顺序拼接非空段落
func JoinBlocks(blocks ...string) string {
	kept := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			kept = append(kept, b)
		}
	}
	return strings.Join(kept, "\n\n")
}
