package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemaforge-api/internal/domain/entity"
)

func TestToGenerationRequest(t *testing.T) {
	r := &GenerateRequest{
		TypeName:          "Item",
		Count:             3,
		Context:           "loot table",
		DuplicateStrategy: "full_composition",
		DiscoveryScope:    "blueprint",
		BlueprintID:       "bp-1",
		Provider:          "openai",
	}

	req, err := r.ToGenerationRequest()
	require.NoError(t, err)
	assert.Equal(t, "Item", req.TypeName)
	assert.Equal(t, 3, req.Count)
	require.NotNil(t, req.StrategyOverride)
	assert.Equal(t, entity.StrategyFullComposition, *req.StrategyOverride)
	require.NotNil(t, req.ScopeOverride)
	assert.Equal(t, entity.ScopeBlueprint, *req.ScopeOverride)
}

func TestToGenerationRequest_DefaultCount(t *testing.T) {
	req, err := (&GenerateRequest{TypeName: "Item"}).ToGenerationRequest()
	require.NoError(t, err)
	assert.Equal(t, 1, req.Count)
	assert.Nil(t, req.StrategyOverride)
	assert.Nil(t, req.ScopeOverride)
}

func TestToGenerationRequest_InvalidOverrides(t *testing.T) {
	_, err := (&GenerateRequest{TypeName: "Item", DuplicateStrategy: "bogus"}).ToGenerationRequest()
	assert.ErrorContains(t, err, "invalid duplicate_strategy")

	_, err = (&GenerateRequest{TypeName: "Item", DiscoveryScope: "bogus"}).ToGenerationRequest()
	assert.ErrorContains(t, err, "invalid discovery_scope")
}

func TestToGenerateResponse(t *testing.T) {
	res := &entity.GenerationResult{
		Success: true,
		Items: []entity.GeneratedItem{
			{Name: "Axe", JSON: []byte(`{"name":"Axe"}`)},
		},
		PromptTokens:     12,
		CompletionTokens: 34,
		EstimatedCost:    0.001,
		Diagnostics:      []string{"element 1 dropped: bad"},
	}

	resp := ToGenerateResponse(res)
	assert.True(t, resp.Success)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Axe", resp.Items[0].Name)
	assert.Equal(t, 12, resp.PromptTokens)
	assert.Equal(t, 34, resp.CompletionTokens)
	assert.Equal(t, res.Diagnostics, resp.Diagnostics)
}

func TestToGenerateResponse_EmptyItemsNotNil(t *testing.T) {
	resp := ToGenerateResponse(entity.FailedResult("boom"))
	assert.False(t, resp.Success)
	assert.NotNil(t, resp.Items)
	assert.Empty(t, resp.Items)
}
