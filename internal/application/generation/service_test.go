package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	einoschema "github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appschema "schemaforge-api/internal/application/schema"
	"schemaforge-api/internal/config"
	"schemaforge-api/internal/domain/entity"
	"schemaforge-api/internal/domain/repository"
	wfmodel "schemaforge-api/internal/workflow/model"
)

// fakeInvoker 捕获合成输入并返回预置的响应
type fakeInvoker struct {
	mu        sync.Mutex
	lastInput *wfmodel.SynthesisInput
	msg       *einoschema.Message
	err       error
}

func (f *fakeInvoker) Invoke(_ context.Context, in *wfmodel.SynthesisInput) (*einoschema.Message, error) {
	f.mu.Lock()
	f.lastInput = in
	f.mu.Unlock()
	return f.msg, f.err
}

// fakeBlueprintRepo 内存蓝图仓储
type fakeBlueprintRepo struct {
	byID map[string]*entity.Blueprint
}

func (f *fakeBlueprintRepo) Create(_ context.Context, bp *entity.Blueprint) error {
	f.byID[bp.ID] = bp
	return nil
}

func (f *fakeBlueprintRepo) GetByID(_ context.Context, id string) (*entity.Blueprint, error) {
	return f.byID[id], nil
}

func (f *fakeBlueprintRepo) GetByName(_ context.Context, name string) (*entity.Blueprint, error) {
	for _, bp := range f.byID {
		if bp.Name == name {
			return bp, nil
		}
	}
	return nil, nil
}

func (f *fakeBlueprintRepo) Update(_ context.Context, bp *entity.Blueprint) error {
	f.byID[bp.ID] = bp
	return nil
}

func (f *fakeBlueprintRepo) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeBlueprintRepo) List(_ context.Context, _ *repository.BlueprintFilter) ([]*entity.Blueprint, error) {
	out := make([]*entity.Blueprint, 0, len(f.byID))
	for _, bp := range f.byID {
		out = append(out, bp)
	}
	return out, nil
}

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			DefaultProvider: "openai",
			Providers: map[string]config.ProviderConfig{
				"openai": {Model: "gpt-4o-mini"},
			},
			Pricing: map[string]config.PricingConfig{
				"gpt-4o-mini": {InputPerMillion: 0.15, OutputPerMillion: 0.6},
			},
		},
		Generation: config.GenerationConfig{
			DefaultDuplicateStrategy: "names_only",
			DefaultDiscoveryScope:    "request",
			MaxExistingItems:         100,
			MaxContextRunes:          8000,
			MaxCount:                 50,
		},
	}
}

func newTestRegistry(t *testing.T) *appschema.Registry {
	t.Helper()
	reg := appschema.NewRegistry()
	_, err := reg.RegisterType(testWeapon{})
	require.NoError(t, err)
	return reg
}

func assistantMessage(content string, promptTokens, completionTokens int) *einoschema.Message {
	return &einoschema.Message{
		Role:    einoschema.Assistant,
		Content: content,
		ResponseMeta: &einoschema.ResponseMeta{
			Usage: &einoschema.TokenUsage{
				PromptTokens:     promptTokens,
				CompletionTokens: completionTokens,
				TotalTokens:      promptTokens + completionTokens,
			},
		},
	}
}

func TestServiceGenerate_Success(t *testing.T) {
	invoker := &fakeInvoker{
		msg: assistantMessage(`[
			{"name":"Axe","rarity":"Common","value":5},
			{"name":"Bow","rarity":"Rare","value":30}
		]`, 1000, 500),
	}
	svc := NewService(testConfig(), newTestRegistry(t), invoker, nil, nil)

	result := svc.Generate(context.Background(), &entity.GenerationRequest{
		TypeName: "testWeapon",
		Count:    2,
	})

	require.True(t, result.Success, "error: %s", result.ErrorMessage)
	assert.Len(t, result.Items, 2)
	assert.Empty(t, result.Diagnostics)
	assert.Equal(t, 1000, result.PromptTokens)
	assert.Equal(t, 500, result.CompletionTokens)
	assert.InDelta(t, 1000*0.15/1e6+500*0.6/1e6, result.EstimatedCost, 1e-12)

	require.NotNil(t, invoker.lastInput)
	assert.Equal(t, "testWeapon", invoker.lastInput.TypeName)
	assert.Equal(t, 2, invoker.lastInput.Count)
	assert.Equal(t, entity.StrategyNamesOnly, invoker.lastInput.Strategy)
	assert.Contains(t, invoker.lastInput.JSONTemplate, `"rarity"`)
}

func TestServiceGenerate_ExistingNamesInjected(t *testing.T) {
	invoker := &fakeInvoker{msg: assistantMessage(`{"name":"Pike","rarity":"Common","value":2}`, 10, 10)}
	svc := NewService(testConfig(), newTestRegistry(t), invoker, nil, nil)

	result := svc.Generate(context.Background(), &entity.GenerationRequest{
		TypeName: "testWeapon",
		Count:    1,
		ExistingItems: []json.RawMessage{
			json.RawMessage(`{"name":"Axe"}`),
			json.RawMessage(`{"value":9}`),
			json.RawMessage(`{"name":"Bow"}`),
		},
	})

	require.True(t, result.Success)
	require.NotNil(t, invoker.lastInput)
	// 无名条目被跳过
	assert.Equal(t, []string{"Axe", "Bow"}, invoker.lastInput.ExistingNames)
	assert.Empty(t, invoker.lastInput.ExistingJSON)
}

func TestServiceGenerate_FullCompositionOverride(t *testing.T) {
	invoker := &fakeInvoker{msg: assistantMessage(`{"name":"Pike","rarity":"Common","value":2}`, 10, 10)}
	svc := NewService(testConfig(), newTestRegistry(t), invoker, nil, nil)

	full := entity.StrategyFullComposition
	result := svc.Generate(context.Background(), &entity.GenerationRequest{
		TypeName:         "testWeapon",
		Count:            1,
		StrategyOverride: &full,
		ExistingItems:    []json.RawMessage{json.RawMessage(`{"name":"Axe","value":5}`)},
	})

	require.True(t, result.Success)
	assert.Equal(t, entity.StrategyFullComposition, invoker.lastInput.Strategy)
	assert.Equal(t, []string{`{"name":"Axe","value":5}`}, invoker.lastInput.ExistingJSON)
	assert.Empty(t, invoker.lastInput.ExistingNames)
}

func TestServiceGenerate_ProviderFailure(t *testing.T) {
	invoker := &fakeInvoker{err: errors.New("connection refused")}
	svc := NewService(testConfig(), newTestRegistry(t), invoker, nil, nil)

	result := svc.Generate(context.Background(), &entity.GenerationRequest{TypeName: "testWeapon", Count: 1})

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "llm provider call failed")
	assert.Empty(t, result.Items)
}

func TestServiceGenerate_EmptyResponse(t *testing.T) {
	invoker := &fakeInvoker{msg: assistantMessage("   ", 5, 0)}
	svc := NewService(testConfig(), newTestRegistry(t), invoker, nil, nil)

	result := svc.Generate(context.Background(), &entity.GenerationRequest{TypeName: "testWeapon", Count: 1})

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "empty response")
}

func TestServiceGenerate_RecoveryFailureKeepsTokens(t *testing.T) {
	invoker := &fakeInvoker{msg: assistantMessage(`{"value":"not a number"}`, 80, 20)}
	svc := NewService(testConfig(), newTestRegistry(t), invoker, nil, nil)

	result := svc.Generate(context.Background(), &entity.GenerationRequest{TypeName: "testWeapon", Count: 1})

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "response recovery failed")
	assert.Equal(t, 80, result.PromptTokens)
	assert.Equal(t, 20, result.CompletionTokens)
}

func TestServiceGenerate_Validation(t *testing.T) {
	svc := NewService(testConfig(), newTestRegistry(t), &fakeInvoker{}, nil, nil)

	tests := []struct {
		name    string
		req     *entity.GenerationRequest
		wantMsg string
	}{
		{name: "nil request", req: nil, wantMsg: "request is nil"},
		{name: "missing type name", req: &entity.GenerationRequest{Count: 1}, wantMsg: "type_name is required"},
		{name: "zero count", req: &entity.GenerationRequest{TypeName: "testWeapon"}, wantMsg: "count must be >= 1"},
		{name: "count above limit", req: &entity.GenerationRequest{TypeName: "testWeapon", Count: 51}, wantMsg: "exceeds limit"},
		{name: "unregistered type", req: &entity.GenerationRequest{TypeName: "Ghost", Count: 1}, wantMsg: "not registered"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.Generate(context.Background(), tt.req)
			assert.False(t, result.Success)
			assert.Contains(t, result.ErrorMessage, tt.wantMsg)
		})
	}
}

func TestServiceGenerate_BlueprintDisabled(t *testing.T) {
	svc := NewService(testConfig(), newTestRegistry(t), &fakeInvoker{}, nil, nil)

	result := svc.Generate(context.Background(), &entity.GenerationRequest{
		TypeName:    "testWeapon",
		Count:       1,
		BlueprintID: "bp-1",
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "blueprints are not enabled")
}

func TestServiceGenerate_BlueprintTypeMismatch(t *testing.T) {
	repo := &fakeBlueprintRepo{byID: map[string]*entity.Blueprint{
		"bp-1": {ID: "bp-1", Name: "npc-pack", TypeName: "NPC"},
	}}
	svc := NewService(testConfig(), newTestRegistry(t), &fakeInvoker{}, repo, nil)

	result := svc.Generate(context.Background(), &entity.GenerationRequest{
		TypeName:    "testWeapon",
		Count:       1,
		BlueprintID: "bp-1",
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "targets type")
}

func TestServiceGenerate_BlueprintMerge(t *testing.T) {
	repo := &fakeBlueprintRepo{byID: map[string]*entity.Blueprint{
		"bp-1": {
			ID:             "bp-1",
			Name:           "weapon-pack",
			TypeName:       "testWeapon",
			Instructions:   "All weapons are cursed.",
			DiscoveryScope: "blueprint",
			ExistingItems:  json.RawMessage(`[{"name":"Cursed Blade"}]`),
		},
	}}
	invoker := &fakeInvoker{msg: assistantMessage(`{"name":"Pike","rarity":"Common","value":2}`, 10, 10)}
	svc := NewService(testConfig(), newTestRegistry(t), invoker, repo, nil)

	result := svc.Generate(context.Background(), &entity.GenerationRequest{
		TypeName:      "testWeapon",
		Count:         1,
		Context:       "Dungeon loot.",
		BlueprintID:   "bp-1",
		ExistingItems: []json.RawMessage{json.RawMessage(`{"name":"Axe"}`)},
	})

	require.True(t, result.Success, "error: %s", result.ErrorMessage)
	require.NotNil(t, invoker.lastInput)
	// 蓝图指令拼接到请求上下文之后
	assert.Equal(t, "Dungeon loot.\n\nAll weapons are cursed.", invoker.lastInput.Context)
	// 蓝图条目排在请求条目之后
	assert.Equal(t, []string{"Axe", "Cursed Blade"}, invoker.lastInput.ExistingNames)
}

func TestServiceGenerate_BlueprintNotFound(t *testing.T) {
	repo := &fakeBlueprintRepo{byID: map[string]*entity.Blueprint{}}
	svc := NewService(testConfig(), newTestRegistry(t), &fakeInvoker{}, repo, nil)

	result := svc.Generate(context.Background(), &entity.GenerationRequest{
		TypeName:    "testWeapon",
		Count:       1,
		BlueprintID: "missing",
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "not found")
}

func TestServiceGenerateBatch_OrderPreserved(t *testing.T) {
	invoker := &fakeInvoker{msg: assistantMessage(`{"name":"Pike","rarity":"Common","value":2}`, 10, 10)}
	svc := NewService(testConfig(), newTestRegistry(t), invoker, nil, nil)

	reqs := make([]*entity.GenerationRequest, 6)
	for i := range reqs {
		if i%2 == 0 {
			reqs[i] = &entity.GenerationRequest{TypeName: "testWeapon", Count: 1}
		} else {
			reqs[i] = &entity.GenerationRequest{TypeName: fmt.Sprintf("Unknown%d", i), Count: 1}
		}
	}

	results := svc.GenerateBatch(context.Background(), reqs)

	require.Len(t, results, 6)
	for i, r := range results {
		require.NotNil(t, r, "result %d", i)
		if i%2 == 0 {
			assert.True(t, r.Success, "result %d: %s", i, r.ErrorMessage)
		} else {
			assert.False(t, r.Success, "result %d", i)
		}
	}
}
