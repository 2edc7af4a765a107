package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	einoschema "github.com/cloudwego/eino/schema"
	"golang.org/x/sync/errgroup"

	appschema "schemaforge-api/internal/application/schema"
	"schemaforge-api/internal/config"
	"schemaforge-api/internal/domain/entity"
	"schemaforge-api/internal/domain/repository"
	domainservice "schemaforge-api/internal/domain/service"
	wfmodel "schemaforge-api/internal/workflow/model"
	"schemaforge-api/pkg/logger"
	"schemaforge-api/pkg/metrics"
)

// SynthesisInvoker 是服务对 LLM 调用链的最小依赖面
type SynthesisInvoker interface {
	Invoke(ctx context.Context, in *wfmodel.SynthesisInput) (*einoschema.Message, error)
}

// 批量生成的进程内并发上限
const batchConcurrency = 4

// Service 编排一次生成请求的完整生命周期：
// 校验 -> 蓝图与策略解析 -> 合成链调用 -> 响应恢复 -> 结果聚合。
// Generate 对外不返回 error：一切失败收敛为失败的 GenerationResult。
type Service struct {
	cfg      *config.Config
	registry *appschema.Registry
	invoker  SynthesisInvoker
	recovery *RecoveryEngine
	pricer   *Pricer
	resolver *StrategyResolver

	// blueprints / usage 为可选依赖，nil 时对应能力被跳过
	blueprints repository.BlueprintRepository
	usage      domainservice.LLMUsageRecorder
}

func NewService(
	cfg *config.Config,
	registry *appschema.Registry,
	invoker SynthesisInvoker,
	blueprints repository.BlueprintRepository,
	usage domainservice.LLMUsageRecorder,
) *Service {
	defaultStrategy, err := entity.ParseDuplicateStrategy(cfg.Generation.DefaultDuplicateStrategy)
	if err != nil {
		defaultStrategy = entity.StrategyNamesOnly
	}
	defaultScope, err := entity.ParseDiscoveryScope(cfg.Generation.DefaultDiscoveryScope)
	if err != nil {
		defaultScope = entity.ScopeRequest
	}

	return &Service{
		cfg:        cfg,
		registry:   registry,
		invoker:    invoker,
		recovery:   NewRecoveryEngine(),
		pricer:     NewPricer(cfg.LLM.Pricing),
		resolver:   NewStrategyResolver(defaultStrategy, defaultScope),
		blueprints: blueprints,
		usage:      usage,
	}
}

// Generate 处理一次生成请求，恰好产生一个结果，错误不跨越此边界。
func (s *Service) Generate(ctx context.Context, req *entity.GenerationRequest) *entity.GenerationResult {
	start := time.Now()
	result := s.generate(ctx, req)

	typeName := "unknown"
	if req != nil && req.TypeName != "" {
		typeName = req.TypeName
	}
	status := "failed"
	if result.Success {
		status = "success"
	}
	metrics.GenerationTotal.WithLabelValues(typeName, status).Inc()
	metrics.GenerationDuration.WithLabelValues(typeName).Observe(time.Since(start).Seconds())
	if n := len(result.Items); n > 0 {
		metrics.ItemsRecovered.WithLabelValues(typeName).Add(float64(n))
	}
	if n := len(result.Diagnostics); n > 0 {
		metrics.ItemsDropped.WithLabelValues(typeName, "parse_failed").Add(float64(n))
	}

	return result
}

// GenerateBatch 并发处理多个独立请求，结果与请求按下标一一对应。
func (s *Service) GenerateBatch(ctx context.Context, reqs []*entity.GenerationRequest) []*entity.GenerationResult {
	results := make([]*entity.GenerationResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, req := range reqs {
		g.Go(func() error {
			results[i] = s.Generate(gctx, req)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *Service) generate(ctx context.Context, req *entity.GenerationRequest) *entity.GenerationResult {
	if err := s.validate(req); err != nil {
		return entity.FailedResult(err.Error())
	}

	reg := s.registry.Get(req.TypeName)
	if reg == nil {
		return entity.FailedResult(fmt.Sprintf("type %q is not registered", req.TypeName))
	}

	bp, err := s.loadBlueprint(ctx, req.BlueprintID)
	if err != nil {
		return entity.FailedResult(err.Error())
	}
	if bp != nil && bp.TypeName != req.TypeName {
		return entity.FailedResult(fmt.Sprintf("blueprint %q targets type %q, request targets %q",
			bp.Name, bp.TypeName, req.TypeName))
	}

	strategy := s.resolver.ResolveStrategy(req.StrategyOverride, bp)
	scope := s.resolver.ResolveScope(req.ScopeOverride, bp)
	existing := s.collectExistingItems(ctx, req, bp, scope)

	in := s.buildSynthesisInput(reg, req, bp, strategy, existing)

	ctx = logger.WithContext(ctx, logger.TypeNameKey, req.TypeName)
	llmStart := time.Now()
	msg, err := s.invoker.Invoke(ctx, in)
	llmDuration := time.Since(llmStart)

	provider := s.effectiveProvider(req)
	model := s.effectiveModel(req, provider)
	callStatus := "success"
	if err != nil {
		callStatus = "failed"
	}
	metrics.LLMCallTotal.WithLabelValues(provider, model, callStatus).Inc()
	metrics.LLMCallDuration.WithLabelValues(provider, model).Observe(llmDuration.Seconds())

	if err != nil {
		logger.Error(ctx, "llm synthesis call failed", err,
			"type_name", req.TypeName,
			"provider", provider,
		)
		return entity.FailedResult(fmt.Sprintf("llm provider call failed: %v", err))
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return entity.FailedResult("llm returned an empty response")
	}

	promptTokens, completionTokens := usageTokens(msg)
	cost := s.pricer.Estimate(model, promptTokens, completionTokens)
	s.recordUsage(ctx, req, provider, model, promptTokens, completionTokens, llmDuration, cost)

	rec, err := s.recovery.Recover(ctx, reg, msg.Content, req.Count)
	if err != nil {
		result := entity.FailedResult(fmt.Sprintf("response recovery failed: %v", err))
		result.PromptTokens = promptTokens
		result.CompletionTokens = completionTokens
		result.EstimatedCost = cost
		return result
	}

	items := rec.Items
	if items == nil {
		items = []entity.GeneratedItem{}
	}
	return &entity.GenerationResult{
		Success:          true,
		Items:            items,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		EstimatedCost:    cost,
		Diagnostics:      rec.Diagnostics,
	}
}

func (s *Service) validate(req *entity.GenerationRequest) error {
	if req == nil {
		return fmt.Errorf("request is nil")
	}
	if strings.TrimSpace(req.TypeName) == "" {
		return fmt.Errorf("type_name is required")
	}
	if req.Count < 1 {
		return fmt.Errorf("count must be >= 1")
	}
	if max := s.cfg.Generation.MaxCount; max > 0 && req.Count > max {
		return fmt.Errorf("count %d exceeds limit %d", req.Count, max)
	}
	return nil
}

func (s *Service) loadBlueprint(ctx context.Context, id string) (*entity.Blueprint, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	if s.blueprints == nil {
		return nil, fmt.Errorf("blueprints are not enabled")
	}
	bp, err := s.blueprints.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load blueprint %s: %w", id, err)
	}
	if bp == nil {
		return nil, fmt.Errorf("blueprint %s not found", id)
	}
	return bp, nil
}

// collectExistingItems 按解析后的发现范围汇总已有条目，蓝图条目排在请求条目之后。
func (s *Service) collectExistingItems(ctx context.Context, req *entity.GenerationRequest, bp *entity.Blueprint, scope entity.DiscoveryScope) []string {
	if scope == entity.ScopeNone {
		return nil
	}

	var out []string
	for _, raw := range req.ExistingItems {
		out = append(out, string(raw))
	}
	if scope == entity.ScopeBlueprint && bp != nil && len(bp.ExistingItems) > 0 {
		items, err := decodeItemArray(bp.ExistingItems)
		if err != nil {
			logger.Warn(ctx, "blueprint existing_items malformed, skipped",
				"blueprint_id", bp.ID,
				"error", err.Error(),
			)
		} else {
			out = append(out, items...)
		}
	}

	if max := s.cfg.Generation.MaxExistingItems; max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

func (s *Service) buildSynthesisInput(
	reg *appschema.Registration,
	req *entity.GenerationRequest,
	bp *entity.Blueprint,
	strategy entity.DuplicateStrategy,
	existing []string,
) *wfmodel.SynthesisInput {
	in := &wfmodel.SynthesisInput{
		TypeName:          req.TypeName,
		SchemaDescription: appschema.Describe(reg.Schema),
		JSONTemplate:      appschema.JSONTemplate(reg.Schema),
		Count:             req.Count,
		Context:           req.Context,
		Strategy:          strategy,
		Provider:          s.effectiveProvider(req),
		Model:             req.Model,
		Temperature:       req.Temperature,
	}

	if bp != nil && strings.TrimSpace(bp.Instructions) != "" {
		if in.Context != "" {
			in.Context = in.Context + "\n\n" + bp.Instructions
		} else {
			in.Context = bp.Instructions
		}
	}

	switch strategy {
	case entity.StrategyNamesOnly:
		in.ExistingNames = resolveExistingNames(existing)
	case entity.StrategyFullComposition:
		in.ExistingJSON = existing
	}

	return in
}

func (s *Service) effectiveProvider(req *entity.GenerationRequest) string {
	if p := strings.TrimSpace(req.Provider); p != "" {
		return p
	}
	return s.cfg.LLM.DefaultProvider
}

func (s *Service) effectiveModel(req *entity.GenerationRequest, provider string) string {
	if m := strings.TrimSpace(req.Model); m != "" {
		return m
	}
	if pc, ok := s.cfg.LLM.Providers[provider]; ok {
		return pc.Model
	}
	return ""
}

// recordUsage 异步记录调用流水，失败只打日志
func (s *Service) recordUsage(ctx context.Context, req *entity.GenerationRequest, provider, model string, promptTokens, completionTokens int, duration time.Duration, cost float64) {
	metrics.LLMTokensUsed.WithLabelValues(provider, model, "prompt").Add(float64(promptTokens))
	metrics.LLMTokensUsed.WithLabelValues(provider, model, "completion").Add(float64(completionTokens))
	metrics.LLMEstimatedCost.WithLabelValues(provider, model).Add(cost)

	if s.usage == nil {
		return
	}
	if err := s.usage.Record(ctx, domainservice.LLMUsageInput{
		Workflow:         "synthesis",
		Provider:         provider,
		Model:            model,
		TypeName:         req.TypeName,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		DurationMs:       int(duration.Milliseconds()),
		EstimatedCost:    cost,
	}); err != nil {
		logger.Warn(ctx, "record llm usage failed", "error", err.Error())
	}
}

// resolveExistingNames 从已有条目的原始 JSON 中提取显示名，提取不到的条目跳过
func resolveExistingNames(existing []string) []string {
	var names []string
	for _, raw := range existing {
		for _, key := range displayNameKeys {
			if v, ok := extractStringField(raw, key); ok && strings.TrimSpace(v) != "" {
				names = append(names, strings.TrimSpace(v))
				break
			}
		}
	}
	return names
}

// decodeItemArray 把持久化的 JSON 数组拆成逐条目的原始文本
func decodeItemArray(raw []byte) ([]string, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, string(it))
	}
	return out, nil
}

func usageTokens(msg *einoschema.Message) (int, int) {
	if msg == nil || msg.ResponseMeta == nil || msg.ResponseMeta.Usage == nil {
		return 0, 0
	}
	return msg.ResponseMeta.Usage.PromptTokens, msg.ResponseMeta.Usage.CompletionTokens
}
