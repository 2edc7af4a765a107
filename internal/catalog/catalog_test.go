package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appschema "schemaforge-api/internal/application/schema"
)

func TestRegister(t *testing.T) {
	reg := appschema.NewRegistry()
	require.NoError(t, Register(reg))

	assert.Equal(t, []string{"Item", "NPC", "Quest"}, reg.Names())

	item := reg.Get("Item")
	require.NotNil(t, item)
	var rarityField bool
	for _, f := range item.Schema.Fields {
		if f.Name == "rarity" {
			rarityField = true
			assert.Equal(t, []string{"Common", "Uncommon", "Rare", "Epic", "Legendary"}, f.EnumValues)
		}
	}
	assert.True(t, rarityField)
}

func TestRegisterTwiceFails(t *testing.T) {
	reg := appschema.NewRegistry()
	require.NoError(t, Register(reg))
	assert.Error(t, Register(reg))
}

func TestRarityString(t *testing.T) {
	assert.Equal(t, "Epic", RarityEpic.String())
	assert.Equal(t, "Common", Rarity(99).String())
}
