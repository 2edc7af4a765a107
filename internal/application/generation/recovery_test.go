package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appschema "schemaforge-api/internal/application/schema"
	apperrors "schemaforge-api/pkg/errors"
)

type testRarity int

func (testRarity) EnumNames() []string {
	return []string{"Common", "Rare", "Epic"}
}

type testWeapon struct {
	Name   string     `json:"name" gen:"required"`
	Rarity testRarity `json:"rarity"`
	Value  int        `json:"value" range:"1,100"`
}

func newTestRegistration(t *testing.T) *appschema.Registration {
	t.Helper()
	reg := appschema.NewRegistry()
	_, err := reg.RegisterType(testWeapon{})
	require.NoError(t, err)
	r := reg.Get("testWeapon")
	require.NotNil(t, r)
	return r
}

func TestCleanMarkdown(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare json untouched",
			raw:  `{"name":"x"}`,
			want: `{"name":"x"}`,
		},
		{
			name: "fenced with language tag",
			raw:  "```json\n{\"name\":\"x\"}\n```",
			want: `{"name":"x"}`,
		},
		{
			name: "fenced without language tag",
			raw:  "```\n[{\"a\":1}]\n```",
			want: `[{"a":1}]`,
		},
		{
			name: "single line fence jumps to first brace",
			raw:  "```json{\"name\":\"x\"}```",
			want: `{"name":"x"}`,
		},
		{
			name: "surrounding whitespace trimmed",
			raw:  "\n\n  {\"name\":\"x\"}  \n",
			want: `{"name":"x"}`,
		},
		{
			name: "empty input",
			raw:  "   ",
			want: "",
		},
		{
			name: "fence with no json payload",
			raw:  "```",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanMarkdown(tt.raw))
		})
	}
}

func TestSplitTopLevelObjects(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "two flat objects",
			in:   `[{"a":1},{"b":2}]`,
			want: []string{`{"a":1}`, `{"b":2}`},
		},
		{
			name: "commas and braces inside strings do not split",
			in:   `[{"a":"x,y"},{"b":"}{"}]`,
			want: []string{`{"a":"x,y"}`, `{"b":"}{"}`},
		},
		{
			name: "nested objects stay whole",
			in:   `[{"a":{"b":{"c":1}}},{"d":2}]`,
			want: []string{`{"a":{"b":{"c":1}}}`, `{"d":2}`},
		},
		{
			name: "escaped quote inside string",
			in:   `[{"a":"he said \"hi\""}]`,
			want: []string{`{"a":"he said \"hi\""}`},
		},
		{
			name: "trailing text after closing bracket ignored",
			in:   `[{"a":1}] and some commentary`,
			want: []string{`{"a":1}`},
		},
		{
			name: "empty array",
			in:   `[]`,
			want: nil,
		},
		{
			name: "no array at all",
			in:   `{"a":1}`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTopLevelObjects(tt.in))
		})
	}
}

func TestNormalizeEnums(t *testing.T) {
	reg := newTestRegistration(t)

	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{
			name:     "value name replaced by ordinal",
			fragment: `{"name":"Blade","rarity":"Rare"}`,
			want:     `{"name":"Blade","rarity":1}`,
		},
		{
			name:     "spaced colon form replaced too",
			fragment: `{"name":"Blade","rarity": "Epic"}`,
			want:     `{"name":"Blade","rarity":2}`,
		},
		{
			name:     "unknown value left untouched",
			fragment: `{"rarity":"Mythic"}`,
			want:     `{"rarity":"Mythic"}`,
		},
		{
			name:     "non enum fields untouched",
			fragment: `{"name":"Common"}`,
			want:     `{"name":"Common"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEnums(tt.fragment, reg.Schema))
		})
	}
}

func TestRecoveryEngine_SingleObject(t *testing.T) {
	reg := newTestRegistration(t)
	engine := NewRecoveryEngine()

	raw := "```json\n{\"name\":\"Fire Sword!\",\"rarity\":\"Epic\",\"value\":42}\n```"
	rec, err := engine.Recover(context.Background(), reg, raw, 1)
	require.NoError(t, err)
	require.Len(t, rec.Items, 1)
	assert.Empty(t, rec.Diagnostics)

	item := rec.Items[0]
	assert.Equal(t, "Fire_Sword_", item.Name)

	weapon, ok := item.Value.(*testWeapon)
	require.True(t, ok)
	assert.Equal(t, "Fire Sword!", weapon.Name)
	assert.Equal(t, testRarity(2), weapon.Rarity)
	assert.Equal(t, 42, weapon.Value)
}

func TestRecoveryEngine_ArrayWithBadElement(t *testing.T) {
	reg := newTestRegistration(t)
	engine := NewRecoveryEngine()

	raw := `[
		{"name":"Axe","rarity":"Common","value":5},
		{"name":"Broken","value":"not a number"},
		{"name":"Bow","rarity":"Rare","value":30}
	]`
	rec, err := engine.Recover(context.Background(), reg, raw, 3)
	require.NoError(t, err)
	assert.Len(t, rec.Items, 2)
	require.Len(t, rec.Diagnostics, 1)
	assert.Contains(t, rec.Diagnostics[0], "element 1 dropped")

	assert.Equal(t, "Axe", rec.Items[0].Name)
	assert.Equal(t, "Bow", rec.Items[1].Name)
}

func TestRecoveryEngine_SingleObjectParseFailure(t *testing.T) {
	reg := newTestRegistration(t)
	engine := NewRecoveryEngine()

	_, err := engine.Recover(context.Background(), reg, `{"value":"nope"}`, 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeParseFailed, apperrors.AsAppError(err).Code)
}

func TestRecoveryEngine_EmptyResponse(t *testing.T) {
	reg := newTestRegistration(t)
	engine := NewRecoveryEngine()

	_, err := engine.Recover(context.Background(), reg, "  \n ", 1)
	assert.ErrorIs(t, err, apperrors.ErrEmptyResponse)
}

func TestRecoveryEngine_EmptyArray(t *testing.T) {
	reg := newTestRegistration(t)
	engine := NewRecoveryEngine()

	_, err := engine.Recover(context.Background(), reg, `[]`, 3)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeParseFailed, apperrors.AsAppError(err).Code)
}

func TestRecoveryEngine_NilRegistration(t *testing.T) {
	engine := NewRecoveryEngine()
	_, err := engine.Recover(context.Background(), nil, `{}`, 1)
	assert.ErrorIs(t, err, apperrors.ErrTypeNotRegistered)
}
