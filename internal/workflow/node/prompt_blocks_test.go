package node

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"schemaforge-api/internal/domain/entity"
	wfmodel "schemaforge-api/internal/workflow/model"
)

func TestBuildExistingItemsBlock(t *testing.T) {
	tests := []struct {
		name string
		in   *wfmodel.SynthesisInput
		want string
	}{
		{
			name: "ignore strategy injects nothing",
			in: &wfmodel.SynthesisInput{
				Strategy:      entity.StrategyIgnore,
				ExistingNames: []string{"Axe", "Bow"},
				ExistingJSON:  []string{`{"name":"Axe"}`},
			},
			want: "",
		},
		{
			name: "names only lists names",
			in: &wfmodel.SynthesisInput{
				Strategy:      entity.StrategyNamesOnly,
				ExistingNames: []string{"Axe", "Bow"},
			},
			want: "Existing items (by name):\n- Axe\n- Bow",
		},
		{
			name: "names only with no names is empty",
			in: &wfmodel.SynthesisInput{
				Strategy: entity.StrategyNamesOnly,
			},
			want: "",
		},
		{
			name: "full composition lists raw json",
			in: &wfmodel.SynthesisInput{
				Strategy:     entity.StrategyFullComposition,
				ExistingJSON: []string{`{"name":"Axe"}`, `{"name":"Bow"}`},
			},
			want: "Existing items (full JSON):\n{\"name\":\"Axe\"}\n{\"name\":\"Bow\"}",
		},
		{
			name: "blank entries skipped",
			in: &wfmodel.SynthesisInput{
				Strategy:      entity.StrategyNamesOnly,
				ExistingNames: []string{"  ", ""},
			},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildExistingItemsBlock(tt.in))
		})
	}
}

func TestBuildRequestBlock(t *testing.T) {
	single := BuildRequestBlock(&wfmodel.SynthesisInput{TypeName: "Item", Count: 1})
	assert.Equal(t, "Generate exactly 1 Item item. Respond with a single JSON object.", single)

	multi := BuildRequestBlock(&wfmodel.SynthesisInput{TypeName: "Item", Count: 5})
	assert.Contains(t, multi, "Generate exactly 5 Item items.")
	assert.Contains(t, multi, "top-level JSON array containing exactly 5 objects")
}

func TestBuildContextBlock(t *testing.T) {
	in := &wfmodel.SynthesisInput{Context: "  A dark forest.  "}
	assert.Equal(t, "Additional context:\nA dark forest.", BuildContextBlock(in, 100))

	assert.Empty(t, BuildContextBlock(&wfmodel.SynthesisInput{}, 100))

	long := &wfmodel.SynthesisInput{Context: strings.Repeat("甲", 50)}
	got := BuildContextBlock(long, 10)
	assert.Equal(t, "Additional context:\n"+strings.Repeat("甲", 10), got)
}

func TestBuildReminderBlock(t *testing.T) {
	base := BuildReminderBlock(&wfmodel.SynthesisInput{}, false)
	assert.Contains(t, base, "raw JSON only")
	assert.NotContains(t, base, "Do not duplicate")

	withExisting := BuildReminderBlock(&wfmodel.SynthesisInput{}, true)
	assert.Contains(t, withExisting, "Do not duplicate any of the existing items")
}

func TestTruncateByRunes(t *testing.T) {
	assert.Equal(t, "abc", TruncateByRunes("abc", 10))
	assert.Equal(t, "ab", TruncateByRunes("abcd", 2))
	assert.Equal(t, "日本", TruncateByRunes("日本語テキスト", 2))
	assert.Equal(t, "", TruncateByRunes("abc", 0))
}

func TestJoinBlocks(t *testing.T) {
	got := JoinBlocks("first", "", "  ", "second")
	assert.Equal(t, "first\n\nsecond", got)
}
