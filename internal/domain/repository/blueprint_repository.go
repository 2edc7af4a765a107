// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"schemaforge-api/internal/domain/entity"
)

// BlueprintFilter 蓝图过滤条件
type BlueprintFilter struct {
	TypeName string
	Tag      string
}

// BlueprintRepository 蓝图仓储接口
type BlueprintRepository interface {
	// Create 创建蓝图
	Create(ctx context.Context, bp *entity.Blueprint) error

	// GetByID 根据 ID 获取蓝图，不存在返回 nil
	GetByID(ctx context.Context, id string) (*entity.Blueprint, error)

	// GetByName 根据名称获取蓝图，不存在返回 nil
	GetByName(ctx context.Context, name string) (*entity.Blueprint, error)

	// Update 更新蓝图
	Update(ctx context.Context, bp *entity.Blueprint) error

	// Delete 删除蓝图
	Delete(ctx context.Context, id string) error

	// List 按过滤条件列举蓝图
	List(ctx context.Context, filter *BlueprintFilter) ([]*entity.Blueprint, error)
}
