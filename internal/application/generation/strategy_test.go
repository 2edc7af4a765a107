package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"schemaforge-api/internal/domain/entity"
)

func strategyPtr(s entity.DuplicateStrategy) *entity.DuplicateStrategy { return &s }
func scopePtr(s entity.DiscoveryScope) *entity.DiscoveryScope          { return &s }

func TestResolveStrategy(t *testing.T) {
	r := NewStrategyResolver(entity.StrategyNamesOnly, entity.ScopeRequest)

	tests := []struct {
		name     string
		override *entity.DuplicateStrategy
		bp       *entity.Blueprint
		want     entity.DuplicateStrategy
	}{
		{
			name: "default when nothing set",
			want: entity.StrategyNamesOnly,
		},
		{
			name: "blueprint override beats default",
			bp:   &entity.Blueprint{DuplicateStrategy: "full_composition"},
			want: entity.StrategyFullComposition,
		},
		{
			name:     "request override beats blueprint",
			override: strategyPtr(entity.StrategyIgnore),
			bp:       &entity.Blueprint{DuplicateStrategy: "full_composition"},
			want:     entity.StrategyIgnore,
		},
		{
			name: "malformed blueprint value falls back to default",
			bp:   &entity.Blueprint{DuplicateStrategy: "bogus"},
			want: entity.StrategyNamesOnly,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.ResolveStrategy(tt.override, tt.bp))
		})
	}
}

func TestResolveScope(t *testing.T) {
	r := NewStrategyResolver(entity.StrategyNamesOnly, entity.ScopeRequest)

	tests := []struct {
		name     string
		override *entity.DiscoveryScope
		bp       *entity.Blueprint
		want     entity.DiscoveryScope
	}{
		{
			name: "default when nothing set",
			want: entity.ScopeRequest,
		},
		{
			name: "blueprint override",
			bp:   &entity.Blueprint{DiscoveryScope: "blueprint"},
			want: entity.ScopeBlueprint,
		},
		{
			name:     "request override wins",
			override: scopePtr(entity.ScopeNone),
			bp:       &entity.Blueprint{DiscoveryScope: "blueprint"},
			want:     entity.ScopeNone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.ResolveScope(tt.override, tt.bp))
		})
	}
}

func TestParseDuplicateStrategy(t *testing.T) {
	s, err := entity.ParseDuplicateStrategy(" Names_Only ")
	assert.NoError(t, err)
	assert.Equal(t, entity.StrategyNamesOnly, s)

	_, err = entity.ParseDuplicateStrategy("whatever")
	assert.Error(t, err)
}
