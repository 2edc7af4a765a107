// Package service 定义跨层领域服务契约
package service

import "context"

// LLMUsageInput 表示一次 LLM 调用的可计费与可观测数据。
// 说明：该结构位于 domain/service，作为跨层的稳定契约（port），避免基础设施层依赖应用层实现。
type LLMUsageInput struct {
	Workflow string
	Provider string
	Model    string
	TypeName string

	PromptTokens     int
	CompletionTokens int
	DurationMs       int
	EstimatedCost    float64
}

// LLMUsageRecorder 负责记录 LLM 使用量（流水落库 + 指标上报）。
// 约定：该接口的实现应尽量"best-effort"，不应阻塞主业务流程。
type LLMUsageRecorder interface {
	Record(ctx context.Context, in LLMUsageInput) error
}
