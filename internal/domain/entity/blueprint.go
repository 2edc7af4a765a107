// Package entity 定义领域实体
package entity

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Blueprint 可复用的生成配置：目标类型引用 + 固定指令 + 策略覆盖
// 同一蓝图可在多次生成间复用，免去逐次重填配置。
type Blueprint struct {
	ID   string `json:"id" gorm:"type:uuid;primaryKey"`
	Name string `json:"name" gorm:"type:varchar(128);not null;uniqueIndex"`

	// TypeName 目标类型引用（类型注册表中的名称）
	TypeName string `json:"type_name" gorm:"type:varchar(128);not null;index"`

	// Instructions 随蓝图固定注入的自由文本指令
	Instructions string `json:"instructions" gorm:"type:text"`

	// DuplicateStrategy / DiscoveryScope 蓝图级覆盖；空字符串表示继承进程默认
	DuplicateStrategy string `json:"duplicate_strategy" gorm:"type:varchar(32)"`
	DiscoveryScope    string `json:"discovery_scope" gorm:"type:varchar(32)"`

	// ExistingItems 蓝图记录的已有条目 JSON 数组（discovery_scope=blueprint 时注入）
	ExistingItems json.RawMessage `json:"existing_items,omitempty" gorm:"type:jsonb"`

	Tags pq.StringArray `json:"tags,omitempty" gorm:"type:text[]"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Blueprint) TableName() string {
	return "blueprints"
}

// StrategyOverride 蓝图级查重策略覆盖，未设置返回 nil
func (b *Blueprint) StrategyOverride() *DuplicateStrategy {
	if b == nil || b.DuplicateStrategy == "" {
		return nil
	}
	s, err := ParseDuplicateStrategy(b.DuplicateStrategy)
	if err != nil {
		return nil
	}
	return &s
}

// ScopeOverride 蓝图级发现范围覆盖，未设置返回 nil
func (b *Blueprint) ScopeOverride() *DiscoveryScope {
	if b == nil || b.DiscoveryScope == "" {
		return nil
	}
	s, err := ParseDiscoveryScope(b.DiscoveryScope)
	if err != nil {
		return nil
	}
	return &s
}
