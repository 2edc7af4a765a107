package generation

import (
	"schemaforge-api/internal/domain/entity"
)

// StrategyResolver 解析单次请求生效的去重策略与已有条目来源范围。
// 优先级：请求显式覆盖 > 蓝图覆盖 > 进程默认值。
type StrategyResolver struct {
	defaultStrategy entity.DuplicateStrategy
	defaultScope    entity.DiscoveryScope
}

func NewStrategyResolver(defaultStrategy entity.DuplicateStrategy, defaultScope entity.DiscoveryScope) *StrategyResolver {
	return &StrategyResolver{
		defaultStrategy: defaultStrategy,
		defaultScope:    defaultScope,
	}
}

func (r *StrategyResolver) ResolveStrategy(requestOverride *entity.DuplicateStrategy, bp *entity.Blueprint) entity.DuplicateStrategy {
	if requestOverride != nil {
		return *requestOverride
	}
	if bp != nil {
		if s := bp.StrategyOverride(); s != nil {
			return *s
		}
	}
	return r.defaultStrategy
}

func (r *StrategyResolver) ResolveScope(requestOverride *entity.DiscoveryScope, bp *entity.Blueprint) entity.DiscoveryScope {
	if requestOverride != nil {
		return *requestOverride
	}
	if bp != nil {
		if s := bp.ScopeOverride(); s != nil {
			return *s
		}
	}
	return r.defaultScope
}
