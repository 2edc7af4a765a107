package dto

import (
	"encoding/json"
	"fmt"

	"schemaforge-api/internal/domain/entity"
)

// GenerateRequest 生成请求体
type GenerateRequest struct {
	TypeName string `json:"type_name" binding:"required"`
	Count    int    `json:"count"`
	Context  string `json:"context"`

	// ExistingItems 内联的已有条目，每个元素是一个 JSON 对象
	ExistingItems []json.RawMessage `json:"existing_items"`

	// DuplicateStrategy / DiscoveryScope 请求级覆盖，空字符串表示不覆盖
	DuplicateStrategy string `json:"duplicate_strategy"`
	DiscoveryScope    string `json:"discovery_scope"`

	BlueprintID string `json:"blueprint_id"`

	Provider    string   `json:"provider"`
	Model       string   `json:"model"`
	Temperature *float32 `json:"temperature"`
}

// ToGenerationRequest 转换为领域请求；策略 / 范围字符串非法时报错
func (r *GenerateRequest) ToGenerationRequest() (*entity.GenerationRequest, error) {
	count := r.Count
	if count == 0 {
		count = 1
	}

	req := &entity.GenerationRequest{
		TypeName:      r.TypeName,
		Count:         count,
		Context:       r.Context,
		ExistingItems: r.ExistingItems,
		BlueprintID:   r.BlueprintID,
		Provider:      r.Provider,
		Model:         r.Model,
		Temperature:   r.Temperature,
	}

	if r.DuplicateStrategy != "" {
		s, err := entity.ParseDuplicateStrategy(r.DuplicateStrategy)
		if err != nil {
			return nil, fmt.Errorf("invalid duplicate_strategy: %w", err)
		}
		req.StrategyOverride = &s
	}
	if r.DiscoveryScope != "" {
		s, err := entity.ParseDiscoveryScope(r.DiscoveryScope)
		if err != nil {
			return nil, fmt.Errorf("invalid discovery_scope: %w", err)
		}
		req.ScopeOverride = &s
	}

	return req, nil
}

// GeneratedItemResponse 单个恢复条目
type GeneratedItemResponse struct {
	Name string          `json:"name"`
	JSON json.RawMessage `json:"json"`
}

// GenerateResponse 生成结果
type GenerateResponse struct {
	Success      bool                    `json:"success"`
	ErrorMessage string                  `json:"error_message,omitempty"`
	Items        []GeneratedItemResponse `json:"items"`

	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	EstimatedCost    float64 `json:"estimated_cost"`

	Diagnostics []string `json:"diagnostics,omitempty"`
}

// ToGenerateResponse 转换领域结果
func ToGenerateResponse(res *entity.GenerationResult) *GenerateResponse {
	items := make([]GeneratedItemResponse, 0, len(res.Items))
	for _, it := range res.Items {
		items = append(items, GeneratedItemResponse{
			Name: it.Name,
			JSON: it.JSON,
		})
	}
	return &GenerateResponse{
		Success:          res.Success,
		ErrorMessage:     res.ErrorMessage,
		Items:            items,
		PromptTokens:     res.PromptTokens,
		CompletionTokens: res.CompletionTokens,
		EstimatedCost:    res.EstimatedCost,
		Diagnostics:      res.Diagnostics,
	}
}

// GenerateBatchRequest 批量生成请求体
type GenerateBatchRequest struct {
	Requests []GenerateRequest `json:"requests" binding:"required,min=1"`
}

// GenerateBatchResponse 批量生成结果，与请求按下标一一对应
type GenerateBatchResponse struct {
	Results []*GenerateResponse `json:"results"`
}
