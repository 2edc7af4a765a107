package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"schemaforge-api/internal/domain/entity"
)

// CreateBlueprintRequest 创建蓝图请求体
type CreateBlueprintRequest struct {
	Name         string `json:"name" binding:"required"`
	TypeName     string `json:"type_name" binding:"required"`
	Instructions string `json:"instructions"`

	DuplicateStrategy string `json:"duplicate_strategy"`
	DiscoveryScope    string `json:"discovery_scope"`

	ExistingItems json.RawMessage `json:"existing_items"`
	Tags          []string        `json:"tags"`
}

// ToBlueprint 转换为领域实体；覆盖字符串非法时报错
func (r *CreateBlueprintRequest) ToBlueprint() (*entity.Blueprint, error) {
	if err := validateOverrides(r.DuplicateStrategy, r.DiscoveryScope); err != nil {
		return nil, err
	}
	if len(r.ExistingItems) > 0 && !json.Valid(r.ExistingItems) {
		return nil, fmt.Errorf("existing_items is not valid JSON")
	}
	return &entity.Blueprint{
		Name:              r.Name,
		TypeName:          r.TypeName,
		Instructions:      r.Instructions,
		DuplicateStrategy: r.DuplicateStrategy,
		DiscoveryScope:    r.DiscoveryScope,
		ExistingItems:     r.ExistingItems,
		Tags:              pq.StringArray(r.Tags),
	}, nil
}

// UpdateBlueprintRequest 更新蓝图请求体，全量覆盖
type UpdateBlueprintRequest struct {
	Name         string `json:"name" binding:"required"`
	TypeName     string `json:"type_name" binding:"required"`
	Instructions string `json:"instructions"`

	DuplicateStrategy string `json:"duplicate_strategy"`
	DiscoveryScope    string `json:"discovery_scope"`

	ExistingItems json.RawMessage `json:"existing_items"`
	Tags          []string        `json:"tags"`
}

// Apply 把更新请求套到已有实体上
func (r *UpdateBlueprintRequest) Apply(bp *entity.Blueprint) error {
	if err := validateOverrides(r.DuplicateStrategy, r.DiscoveryScope); err != nil {
		return err
	}
	if len(r.ExistingItems) > 0 && !json.Valid(r.ExistingItems) {
		return fmt.Errorf("existing_items is not valid JSON")
	}
	bp.Name = r.Name
	bp.TypeName = r.TypeName
	bp.Instructions = r.Instructions
	bp.DuplicateStrategy = r.DuplicateStrategy
	bp.DiscoveryScope = r.DiscoveryScope
	bp.ExistingItems = r.ExistingItems
	bp.Tags = pq.StringArray(r.Tags)
	return nil
}

func validateOverrides(strategy, scope string) error {
	if strategy != "" {
		if _, err := entity.ParseDuplicateStrategy(strategy); err != nil {
			return fmt.Errorf("invalid duplicate_strategy: %w", err)
		}
	}
	if scope != "" {
		if _, err := entity.ParseDiscoveryScope(scope); err != nil {
			return fmt.Errorf("invalid discovery_scope: %w", err)
		}
	}
	return nil
}

// BlueprintResponse 蓝图响应
type BlueprintResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	TypeName     string `json:"type_name"`
	Instructions string `json:"instructions,omitempty"`

	DuplicateStrategy string `json:"duplicate_strategy,omitempty"`
	DiscoveryScope    string `json:"discovery_scope,omitempty"`

	ExistingItems json.RawMessage `json:"existing_items,omitempty"`
	Tags          []string        `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToBlueprintResponse 转换领域实体
func ToBlueprintResponse(bp *entity.Blueprint) *BlueprintResponse {
	return &BlueprintResponse{
		ID:                bp.ID,
		Name:              bp.Name,
		TypeName:          bp.TypeName,
		Instructions:      bp.Instructions,
		DuplicateStrategy: bp.DuplicateStrategy,
		DiscoveryScope:    bp.DiscoveryScope,
		ExistingItems:     bp.ExistingItems,
		Tags:              bp.Tags,
		CreatedAt:         bp.CreatedAt,
		UpdatedAt:         bp.UpdatedAt,
	}
}

// ToBlueprintListResponse 转换蓝图列表
func ToBlueprintListResponse(bps []*entity.Blueprint) []*BlueprintResponse {
	out := make([]*BlueprintResponse, 0, len(bps))
	for _, bp := range bps {
		out = append(out, ToBlueprintResponse(bp))
	}
	return out
}
