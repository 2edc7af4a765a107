// Package quota 记录 LLM 使用量流水
package quota

import (
	"context"
	"fmt"
	"strings"

	"schemaforge-api/internal/domain/entity"
	"schemaforge-api/internal/domain/repository"
	"schemaforge-api/internal/domain/service"
)

// LLMUsageRecorder 把每次 LLM 调用落为一条流水事件。
// best-effort：落库失败不向调用方传播，主流程不因记账中断。
type LLMUsageRecorder struct {
	usageRepo repository.LLMUsageEventRepository
}

func NewLLMUsageRecorder(usageRepo repository.LLMUsageEventRepository) *LLMUsageRecorder {
	return &LLMUsageRecorder{usageRepo: usageRepo}
}

func (r *LLMUsageRecorder) Record(ctx context.Context, in service.LLMUsageInput) error {
	if r == nil || r.usageRepo == nil {
		return nil
	}
	if in.PromptTokens < 0 || in.CompletionTokens < 0 {
		return fmt.Errorf("invalid token usage")
	}

	evt := &entity.LLMUsageEvent{
		Provider:         strings.TrimSpace(in.Provider),
		Model:            strings.TrimSpace(in.Model),
		Workflow:         strings.TrimSpace(in.Workflow),
		TypeName:         strings.TrimSpace(in.TypeName),
		TokensPrompt:     in.PromptTokens,
		TokensCompletion: in.CompletionTokens,
		DurationMs:       in.DurationMs,
		EstimatedCost:    in.EstimatedCost,
	}
	_ = r.usageRepo.Create(ctx, evt)
	return nil
}
