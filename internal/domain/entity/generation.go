// Package entity 定义领域实体
package entity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DuplicateStrategy 查重策略：控制注入提示词的"已有条目"上下文量
type DuplicateStrategy string

const (
	// StrategyIgnore 不注入任何已有条目
	StrategyIgnore DuplicateStrategy = "ignore"
	// StrategyNamesOnly 仅注入已有条目的显示名列表
	StrategyNamesOnly DuplicateStrategy = "names_only"
	// StrategyFullComposition 注入已有条目的完整 JSON，token 成本最高、保真度最高
	StrategyFullComposition DuplicateStrategy = "full_composition"
)

// ParseDuplicateStrategy 解析查重策略字符串
func ParseDuplicateStrategy(s string) (DuplicateStrategy, error) {
	switch DuplicateStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyIgnore:
		return StrategyIgnore, nil
	case StrategyNamesOnly:
		return StrategyNamesOnly, nil
	case StrategyFullComposition:
		return StrategyFullComposition, nil
	default:
		return "", fmt.Errorf("unknown duplicate strategy: %q", s)
	}
}

// DiscoveryScope 已有条目的发现范围
type DiscoveryScope string

const (
	// ScopeNone 不查找已有条目
	ScopeNone DiscoveryScope = "none"
	// ScopeRequest 仅使用请求体内联的已有条目
	ScopeRequest DiscoveryScope = "request"
	// ScopeBlueprint 请求内联条目之外，合并蓝图记录的已有条目
	ScopeBlueprint DiscoveryScope = "blueprint"
)

// ParseDiscoveryScope 解析发现范围字符串
func ParseDiscoveryScope(s string) (DiscoveryScope, error) {
	switch DiscoveryScope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeNone:
		return ScopeNone, nil
	case ScopeRequest:
		return ScopeRequest, nil
	case ScopeBlueprint:
		return ScopeBlueprint, nil
	default:
		return "", fmt.Errorf("unknown discovery scope: %q", s)
	}
}

// GenerationRequest 一次生成请求
type GenerationRequest struct {
	// TypeName 已注册目标类型名
	TypeName string
	// Count 请求生成的条目数，>= 1
	Count int
	// Context 自由文本上下文，可为空
	Context string
	// ExistingItems 调用方内联的已有条目（原始 JSON 对象）
	ExistingItems []json.RawMessage

	// StrategyOverride 请求级查重策略覆盖，nil 表示不覆盖
	StrategyOverride *DuplicateStrategy
	// ScopeOverride 请求级发现范围覆盖，nil 表示不覆盖
	ScopeOverride *DiscoveryScope

	// BlueprintID 可选：按蓝图生成
	BlueprintID string

	// Provider / Model / Temperature LLM 调用参数，空值走 provider 配置默认
	Provider    string
	Model       string
	Temperature *float32
}

// GeneratedItem 恢复出的单个条目
type GeneratedItem struct {
	// Name 候选显示名，已经过字符清洗；存储层的唯一性由下游负责
	Name string `json:"name"`
	// Value 结构化实例（目标类型的新建实例经 JSON 覆盖得到）
	Value any `json:"value"`
	// JSON 归一化后的条目 JSON 文本
	JSON json.RawMessage `json:"json"`
}

// GenerationResult 一次生成请求的最终结果；构造后不可变，每次请求恰好产生一个
type GenerationResult struct {
	Success      bool            `json:"success"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Items        []GeneratedItem `json:"items"`

	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	EstimatedCost    float64 `json:"estimated_cost"`

	// Diagnostics 逐元素失败的诊断信息，不影响整体成败
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// FailedResult 构造失败结果
func FailedResult(msg string) *GenerationResult {
	return &GenerationResult{
		Success:      false,
		ErrorMessage: msg,
		Items:        []GeneratedItem{},
	}
}
