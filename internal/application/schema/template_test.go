package schema

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONTemplate(t *testing.T) {
	s := extractSample(t)
	tpl := JSONTemplate(s)

	require.True(t, json.Valid([]byte(tpl)), "template must be valid json: %s", tpl)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(tpl), &decoded))

	// 枚举取第一个取值名，数值取声明下界
	assert.Equal(t, "Bronze", decoded["grade"])
	assert.Equal(t, "Red", decoded["picked"])
	assert.Equal(t, float64(1), decoded["power"])
	assert.Equal(t, 0.5, decoded["weight"])
	assert.Equal(t, "", decoded["title"])
	assert.Equal(t, false, decoded["active"])
	assert.Equal(t, []any{}, decoded["tags"])
}

func TestJSONTemplate_Empty(t *testing.T) {
	assert.Equal(t, "{}", JSONTemplate(nil))

	type empty struct{}
	s, err := NewExtractor().Extract(reflect.TypeOf(empty{}))
	require.NoError(t, err)
	assert.Equal(t, "{}", JSONTemplate(s))
}

func TestDescribe(t *testing.T) {
	s := extractSample(t)
	desc := Describe(s)

	assert.Contains(t, desc, "Type: sampleStruct")
	assert.Contains(t, desc, "- title (string, required): display title")
	assert.Contains(t, desc, "- grade (integer, one of: Bronze | Silver | Gold)")
	assert.Contains(t, desc, "- power (integer, range 1..100)")
	assert.Contains(t, desc, "- weight (number, minimum 0.5)")
	assert.Contains(t, desc, "- picked (string, one of: Red | Green | Blue)")
}

func TestValidateTemplate(t *testing.T) {
	assert.NoError(t, ValidateTemplate(extractSample(t)))
}
