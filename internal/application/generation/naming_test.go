package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "clean name untouched", in: "Fire_Sword", want: "Fire_Sword"},
		{name: "space and punctuation replaced", in: "Fire Sword!", want: "Fire_Sword_"},
		{name: "leading digit prefixed", in: "99 Problems", want: "_99_Problems"},
		{name: "hyphen kept", in: "long-sword", want: "long-sword"},
		{name: "unicode letters kept", in: "Épée", want: "Épée"},
		{name: "empty stays empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.in))
		})
	}
}

func TestExtractDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{
			name:     "name key",
			fragment: `{"name":"Iron Dagger","value":3}`,
			want:     "Iron_Dagger",
		},
		{
			name:     "displayName preferred over title",
			fragment: `{"title":"second","displayName":"First Pick"}`,
			want:     "First_Pick",
		},
		{
			name:     "title used when no name",
			fragment: `{"title":"The Lost Mine","reward":10}`,
			want:     "The_Lost_Mine",
		},
		{
			name:     "non string name skipped, falls through to label",
			fragment: `{"name":42,"label":"Backup"}`,
			want:     "Backup",
		},
		{
			name:     "escaped quotes in value",
			fragment: `{"name":"The \"Best\" Axe"}`,
			want:     "The__Best__Axe",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDisplayName(tt.fragment, "Item"))
		})
	}
}

func TestExtractDisplayName_Fallback(t *testing.T) {
	got := ExtractDisplayName(`{"value":1}`, "Item")
	require.True(t, strings.HasPrefix(got, "Item_"), "got %q", got)
	// 类型名 + 下划线 + 8 位短 ID
	assert.Len(t, got, len("Item_")+8)

	// 合成名称每次调用唯一
	again := ExtractDisplayName(`{"value":1}`, "Item")
	assert.NotEqual(t, got, again)
}

func TestExtractStringField_WhitespaceAroundColon(t *testing.T) {
	v, ok := extractStringField("{\"name\" :\n \"Spear\"}", "name")
	require.True(t, ok)
	assert.Equal(t, "Spear", v)
}
