// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"time"

	"schemaforge-api/internal/domain/entity"
)

type LLMUsageEventRepository interface {
	Create(ctx context.Context, event *entity.LLMUsageEvent) error
	GetTokenUsage(ctx context.Context, typeName string, startInclusive, endExclusive time.Time) (int64, error)
}
