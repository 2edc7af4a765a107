// Package redis 提供蓝图缓存装饰器
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"schemaforge-api/internal/domain/entity"
	"schemaforge-api/internal/domain/repository"
	"schemaforge-api/pkg/logger"
)

const blueprintCacheTTL = 10 * time.Minute

// CachedBlueprintRepository 旁路缓存装饰器：读走缓存，写穿后失效。
// 缓存故障只打日志，读写始终能落到内层仓储。
type CachedBlueprintRepository struct {
	inner repository.BlueprintRepository
	cache *Cache
}

func NewCachedBlueprintRepository(inner repository.BlueprintRepository, cache *Cache) *CachedBlueprintRepository {
	return &CachedBlueprintRepository{
		inner: inner,
		cache: cache,
	}
}

func blueprintIDKey(id string) string {
	return "blueprint:id:" + id
}

func blueprintNameKey(name string) string {
	return "blueprint:name:" + name
}

func (r *CachedBlueprintRepository) Create(ctx context.Context, bp *entity.Blueprint) error {
	return r.inner.Create(ctx, bp)
}

func (r *CachedBlueprintRepository) GetByID(ctx context.Context, id string) (*entity.Blueprint, error) {
	if r.cache == nil {
		return r.inner.GetByID(ctx, id)
	}

	data, err := r.cache.GetOrLoadSafe(ctx, blueprintIDKey(id), blueprintCacheTTL, func() (interface{}, error) {
		bp, err := r.inner.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if bp == nil {
			return nil, errNotFound
		}
		return bp, nil
	})
	if err != nil {
		if err == errNotFound {
			return nil, nil
		}
		if IsNil(err) {
			return nil, nil
		}
		// 缓存层故障时直接回源
		logger.Warn(ctx, "blueprint cache read failed, falling back to store", "error", err.Error())
		return r.inner.GetByID(ctx, id)
	}

	var bp entity.Blueprint
	if err := json.Unmarshal(data, &bp); err != nil {
		return r.inner.GetByID(ctx, id)
	}
	return &bp, nil
}

func (r *CachedBlueprintRepository) GetByName(ctx context.Context, name string) (*entity.Blueprint, error) {
	if r.cache == nil {
		return r.inner.GetByName(ctx, name)
	}

	data, err := r.cache.GetOrLoadSafe(ctx, blueprintNameKey(name), blueprintCacheTTL, func() (interface{}, error) {
		bp, err := r.inner.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if bp == nil {
			return nil, errNotFound
		}
		return bp, nil
	})
	if err != nil {
		if err == errNotFound || IsNil(err) {
			return nil, nil
		}
		logger.Warn(ctx, "blueprint cache read failed, falling back to store", "error", err.Error())
		return r.inner.GetByName(ctx, name)
	}

	var bp entity.Blueprint
	if err := json.Unmarshal(data, &bp); err != nil {
		return r.inner.GetByName(ctx, name)
	}
	return &bp, nil
}

func (r *CachedBlueprintRepository) Update(ctx context.Context, bp *entity.Blueprint) error {
	if err := r.inner.Update(ctx, bp); err != nil {
		return err
	}
	r.invalidate(ctx, bp.ID, bp.Name)
	return nil
}

func (r *CachedBlueprintRepository) Delete(ctx context.Context, id string) error {
	// 先取一次以拿到名称键
	bp, _ := r.inner.GetByID(ctx, id)

	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	name := ""
	if bp != nil {
		name = bp.Name
	}
	r.invalidate(ctx, id, name)
	return nil
}

func (r *CachedBlueprintRepository) List(ctx context.Context, filter *repository.BlueprintFilter) ([]*entity.Blueprint, error) {
	return r.inner.List(ctx, filter)
}

func (r *CachedBlueprintRepository) invalidate(ctx context.Context, id, name string) {
	if r.cache == nil {
		return
	}
	keys := []string{blueprintIDKey(id)}
	if name != "" {
		keys = append(keys, blueprintNameKey(name))
	}
	if err := r.cache.Delete(ctx, keys...); err != nil {
		logger.Warn(ctx, "blueprint cache invalidation failed", "error", err.Error())
	}
}

var errNotFound = fmt.Errorf("blueprint not cached: not found")
