// Package chain 提供基于 Eino 的 LLM 调用链
package chain

import (
	"context"
	"fmt"
	"strings"
	"sync"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	llmctx "schemaforge-api/internal/domain/service"
	wfmodel "schemaforge-api/internal/workflow/model"
	wfnode "schemaforge-api/internal/workflow/node"
	workflowport "schemaforge-api/internal/workflow/port"
	workflowprompt "schemaforge-api/internal/workflow/prompt"
	"schemaforge-api/pkg/logger"
)

// SynthesisChain 结构化数据合成链：组装消息 -> 调用 ChatModel -> 返回原始响应消息
type SynthesisChain struct {
	factory         workflowport.ChatModelFactory
	maxContextRunes int

	chainOnce sync.Once
	chain     compose.Runnable[*wfmodel.SynthesisInput, *schema.Message]
	chainErr  error
}

func NewSynthesisChain(factory workflowport.ChatModelFactory, maxContextRunes int) *SynthesisChain {
	return &SynthesisChain{
		factory:         factory,
		maxContextRunes: maxContextRunes,
	}
}

func (c *SynthesisChain) Invoke(ctx context.Context, in *wfmodel.SynthesisInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}

	chain, err := c.getChain()
	if err != nil {
		return nil, err
	}
	return chain.Invoke(ctx, in)
}

type synthesisChainState struct {
	In       *wfmodel.SynthesisInput
	Messages []*schema.Message
	OutMsg   *schema.Message
}

func (c *SynthesisChain) getChain() (compose.Runnable[*wfmodel.SynthesisInput, *schema.Message], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *SynthesisChain) buildChain(ctx context.Context) (compose.Runnable[*wfmodel.SynthesisInput, *schema.Message], error) {
	chain := compose.NewChain[*wfmodel.SynthesisInput, *schema.Message]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in *wfmodel.SynthesisInput) (*synthesisChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			return &synthesisChainState{In: in}, nil
		}),
		compose.WithNodeName("synthesis.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *synthesisChainState) (*synthesisChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			msgs, err := c.formatMessages(ctx, st.In)
			if err != nil {
				return nil, err
			}
			st.Messages = msgs
			return st, nil
		}),
		compose.WithNodeName("synthesis.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *synthesisChainState) (*synthesisChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			if c.factory == nil {
				return nil, fmt.Errorf("llm factory not configured")
			}

			ctx = llmctx.WithWorkflowProvider(ctx, "synthesis", strings.TrimSpace(st.In.Provider))
			ctx = llmctx.WithTypeName(ctx, st.In.TypeName)
			chatModel, err := c.factory.Get(ctx, strings.TrimSpace(st.In.Provider))
			if err != nil {
				return nil, err
			}

			outMsg, err := chatModel.Generate(ctx, st.Messages, buildSynthesisModelOptions(st.In, true)...)
			if err != nil && wfnode.IsResponseFormatUnsupportedError(err) {
				logger.Warn(ctx, "llm response_format not supported, fallback to prompt-only",
					"provider", strings.TrimSpace(st.In.Provider),
					"model", strings.TrimSpace(st.In.Model),
					"error", err.Error(),
				)
				outMsg, err = chatModel.Generate(ctx, st.Messages, buildSynthesisModelOptions(st.In, false)...)
			}
			if err != nil {
				return nil, err
			}
			if outMsg == nil {
				return nil, fmt.Errorf("empty llm response")
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName("synthesis.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *synthesisChainState) (*schema.Message, error) {
			if st == nil || st.OutMsg == nil {
				return nil, fmt.Errorf("state is nil")
			}
			return st.OutMsg, nil
		}),
		compose.WithNodeName("synthesis.finalize"),
	)

	return chain.Compile(ctx, compose.WithGraphName("synthesis_chain"))
}

var defaultPromptRegistry = workflowprompt.NewRegistry()

// formatMessages 组装 {system, user} 消息对。
// user 侧按固定顺序拼段：Schema 描述、JSON 模板、已有条目、自由上下文、请求、结尾提醒。
func (c *SynthesisChain) formatMessages(ctx context.Context, in *wfmodel.SynthesisInput) ([]*schema.Message, error) {
	tpl, err := defaultPromptRegistry.ChatTemplate(workflowprompt.PromptSynthesisV1)
	if err != nil {
		return nil, err
	}

	existingBlock := wfnode.BuildExistingItemsBlock(in)
	vars := map[string]any{
		"schema_block":   wfnode.BuildSchemaBlock(in),
		"template_block": wfnode.BuildTemplateBlock(in),
		"existing_block": existingBlock,
		"context_block":  wfnode.BuildContextBlock(in, c.maxContextRunes),
		"request_block":  wfnode.BuildRequestBlock(in),
		"reminder_block": wfnode.BuildReminderBlock(in, existingBlock != ""),
	}
	return tpl.Format(ctx, vars)
}

func buildSynthesisModelOptions(in *wfmodel.SynthesisInput, enableFormat bool) []model.Option {
	opts := make([]model.Option, 0, 4)
	if in == nil {
		return opts
	}

	if in.Temperature != nil {
		opts = append(opts, model.WithTemperature(*in.Temperature))
	}
	if in.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*in.MaxTokens))
	}
	if strings.TrimSpace(in.Model) != "" {
		opts = append(opts, model.WithModel(strings.TrimSpace(in.Model)))
	}

	// 顶层数组响应与 json_object 模式互斥，仅单条目请求启用
	if enableFormat && in.Count == 1 {
		opts = append(opts, openaiopts.WithExtraFields(map[string]any{
			"response_format": map[string]any{
				"type": "json_object",
			},
		}))
	}

	return opts
}
