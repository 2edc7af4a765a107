// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schemaforge-api/internal/domain/entity"
	"schemaforge-api/internal/domain/repository"
)

// BlueprintRepository 蓝图仓储实现
type BlueprintRepository struct {
	client *Client
}

// NewBlueprintRepository 创建蓝图仓储
func NewBlueprintRepository(client *Client) *BlueprintRepository {
	return &BlueprintRepository{client: client}
}

// Create 创建蓝图，ID 为空时生成
func (r *BlueprintRepository) Create(ctx context.Context, bp *entity.Blueprint) error {
	ctx, span := tracer.Start(ctx, "postgres.BlueprintRepository.Create")
	defer span.End()

	if bp.ID == "" {
		bp.ID = uuid.New().String()
	}

	if err := r.client.db.WithContext(ctx).Create(bp).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create blueprint: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取蓝图，不存在返回 nil
func (r *BlueprintRepository) GetByID(ctx context.Context, id string) (*entity.Blueprint, error) {
	ctx, span := tracer.Start(ctx, "postgres.BlueprintRepository.GetByID")
	defer span.End()

	var bp entity.Blueprint
	err := r.client.db.WithContext(ctx).Where("id = ?", id).First(&bp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get blueprint: %w", err)
	}
	return &bp, nil
}

// GetByName 根据名称获取蓝图，不存在返回 nil
func (r *BlueprintRepository) GetByName(ctx context.Context, name string) (*entity.Blueprint, error) {
	ctx, span := tracer.Start(ctx, "postgres.BlueprintRepository.GetByName")
	defer span.End()

	var bp entity.Blueprint
	err := r.client.db.WithContext(ctx).Where("name = ?", name).First(&bp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get blueprint by name: %w", err)
	}
	return &bp, nil
}

// Update 更新蓝图
func (r *BlueprintRepository) Update(ctx context.Context, bp *entity.Blueprint) error {
	ctx, span := tracer.Start(ctx, "postgres.BlueprintRepository.Update")
	defer span.End()

	result := r.client.db.WithContext(ctx).
		Model(&entity.Blueprint{}).
		Where("id = ?", bp.ID).
		Updates(map[string]any{
			"name":               bp.Name,
			"type_name":          bp.TypeName,
			"instructions":       bp.Instructions,
			"duplicate_strategy": bp.DuplicateStrategy,
			"discovery_scope":    bp.DiscoveryScope,
			"existing_items":     bp.ExistingItems,
			"tags":               bp.Tags,
		})
	if result.Error != nil {
		span.RecordError(result.Error)
		return fmt.Errorf("failed to update blueprint: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除蓝图
func (r *BlueprintRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.BlueprintRepository.Delete")
	defer span.End()

	result := r.client.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Blueprint{})
	if result.Error != nil {
		span.RecordError(result.Error)
		return fmt.Errorf("failed to delete blueprint: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List 按过滤条件列举蓝图
func (r *BlueprintRepository) List(ctx context.Context, filter *repository.BlueprintFilter) ([]*entity.Blueprint, error) {
	ctx, span := tracer.Start(ctx, "postgres.BlueprintRepository.List")
	defer span.End()

	db := r.client.db.WithContext(ctx).Model(&entity.Blueprint{})
	if filter != nil {
		if filter.TypeName != "" {
			db = db.Where("type_name = ?", filter.TypeName)
		}
		if filter.Tag != "" {
			db = db.Where("? = ANY(tags)", filter.Tag)
		}
	}

	var bps []*entity.Blueprint
	if err := db.Order("created_at DESC").Find(&bps).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list blueprints: %w", err)
	}
	return bps, nil
}
