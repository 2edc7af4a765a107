package prompt

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatTemplate_SynthesisV1(t *testing.T) {
	reg := NewRegistry()

	tpl, err := reg.ChatTemplate(PromptSynthesisV1)
	require.NoError(t, err)
	require.NotNil(t, tpl)

	msgs, err := tpl.Format(context.Background(), map[string]any{
		"schema_block":   "Item schema:\n- name (string)",
		"template_block": "JSON template for a single item:\n{\"name\": \"\"}",
		"existing_block": "",
		"context_block":  "",
		"request_block":  "Generate exactly 1 Item item. Respond with a single JSON object.",
		"reminder_block": "Reminders:\n- Output raw JSON only.",
	})
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "synthetic data generator")

	assert.Equal(t, schema.User, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "Item schema:")
	assert.Contains(t, msgs[1].Content, "Generate exactly 1 Item item.")
}

func TestChatTemplate_UnknownID(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.ChatTemplate(PromptID("nope"))
	assert.Error(t, err)
}

func TestChatTemplate_Cached(t *testing.T) {
	reg := NewRegistry()
	a, err := reg.ChatTemplate(PromptSynthesisV1)
	require.NoError(t, err)
	b, err := reg.ChatTemplate(PromptSynthesisV1)
	require.NoError(t, err)
	assert.Same(t, a, b)
}
