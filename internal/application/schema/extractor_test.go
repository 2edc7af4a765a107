package schema

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemaforge-api/internal/domain/entity"
)

type grade int

func (grade) EnumNames() []string {
	return []string{"Bronze", "Silver", "Gold"}
}

type sampleStruct struct {
	Title     string   `json:"title" gen:"required" desc:"display title"`
	Grade     grade    `json:"grade"`
	Power     int      `json:"power" range:"1,100"`
	Weight    float64  `json:"weight" min:"0.5"`
	Explicit  int      `json:"explicit" gen:"min=10,max=20" range:"0,999"`
	Picked    string   `json:"picked" gen:"enum=Red|Green|Blue"`
	Tags      []string `json:"tags"`
	Active    bool     `json:"active"`
	Renamed   string   `json:"other_name"`
	Untagged  string
	Skipped   string `json:"-"`
	hidden    string
}

var _ = sampleStruct{}.hidden

func extractSample(t *testing.T) *entity.TypeSchema {
	t.Helper()
	s, err := NewExtractor().Extract(reflect.TypeOf(sampleStruct{}))
	require.NoError(t, err)
	return s
}

func fieldByName(t *testing.T, s *entity.TypeSchema, name string) *entity.FieldSchema {
	t.Helper()
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	t.Fatalf("field %q not found", name)
	return nil
}

func TestExtract_FieldInventory(t *testing.T) {
	s := extractSample(t)

	assert.Equal(t, "sampleStruct", s.TypeName)

	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	// json:"-" 与未导出字段被跳过，无 json 标签的字段用原名
	assert.Equal(t, []string{
		"title", "grade", "power", "weight", "explicit",
		"picked", "tags", "active", "other_name", "Untagged",
	}, names)
}

func TestExtract_KindMapping(t *testing.T) {
	s := extractSample(t)

	assert.Equal(t, entity.KindString, fieldByName(t, s, "title").Kind)
	assert.Equal(t, entity.KindInteger, fieldByName(t, s, "grade").Kind)
	assert.Equal(t, entity.KindNumber, fieldByName(t, s, "weight").Kind)
	assert.Equal(t, entity.KindArray, fieldByName(t, s, "tags").Kind)
	assert.Equal(t, entity.KindBoolean, fieldByName(t, s, "active").Kind)
}

func TestExtract_EnumFromNamer(t *testing.T) {
	f := fieldByName(t, extractSample(t), "grade")
	assert.Equal(t, []string{"Bronze", "Silver", "Gold"}, f.EnumValues)
	assert.True(t, f.IsEnum())
}

func TestExtract_RangeTag(t *testing.T) {
	f := fieldByName(t, extractSample(t), "power")
	require.NotNil(t, f.MinValue)
	require.NotNil(t, f.MaxValue)
	assert.Equal(t, 1.0, *f.MinValue)
	assert.Equal(t, 100.0, *f.MaxValue)
}

func TestExtract_MinTag(t *testing.T) {
	f := fieldByName(t, extractSample(t), "weight")
	require.NotNil(t, f.MinValue)
	assert.Equal(t, 0.5, *f.MinValue)
	assert.Nil(t, f.MaxValue)
}

func TestExtract_GenTagBeatsRange(t *testing.T) {
	f := fieldByName(t, extractSample(t), "explicit")
	require.NotNil(t, f.MinValue)
	require.NotNil(t, f.MaxValue)
	assert.Equal(t, 10.0, *f.MinValue)
	assert.Equal(t, 20.0, *f.MaxValue)
}

func TestExtract_GenTagEnum(t *testing.T) {
	f := fieldByName(t, extractSample(t), "picked")
	assert.Equal(t, []string{"Red", "Green", "Blue"}, f.EnumValues)
	assert.Equal(t, entity.KindString, f.Kind)
}

func TestExtract_Required(t *testing.T) {
	assert.True(t, fieldByName(t, extractSample(t), "title").Required)
	assert.False(t, fieldByName(t, extractSample(t), "power").Required)
}

func TestExtract_PointerAndNonStruct(t *testing.T) {
	s, err := NewExtractor().Extract(reflect.TypeOf(&sampleStruct{}))
	require.NoError(t, err)
	assert.Equal(t, "sampleStruct", s.TypeName)

	_, err = NewExtractor().Extract(reflect.TypeOf(42))
	assert.Error(t, err)

	_, err = NewExtractor().Extract(nil)
	assert.Error(t, err)
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.RegisterType(sampleStruct{})
	require.NoError(t, err)
	_, err = reg.RegisterType(sampleStruct{})
	assert.ErrorContains(t, err, "already registered")
}

func TestRegistry_ExplicitSchema(t *testing.T) {
	reg := NewRegistry()
	err := reg.RegisterSchema(&entity.TypeSchema{
		TypeName: "Potion",
		Fields: []entity.FieldSchema{
			{Name: "name", Kind: entity.KindString},
			{Name: "doses", Kind: entity.KindInteger},
		},
	})
	require.NoError(t, err)

	r := reg.Get("Potion")
	require.NotNil(t, r)
	assert.Nil(t, r.GoType)

	// 无 Go 类型时结构化解析落到 map
	inst := r.NewInstance()
	_, ok := inst.(*map[string]any)
	assert.True(t, ok)
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterSchema(&entity.TypeSchema{TypeName: "Zed", Fields: []entity.FieldSchema{{Name: "a", Kind: entity.KindString}}}))
	require.NoError(t, reg.RegisterSchema(&entity.TypeSchema{TypeName: "Alpha", Fields: []entity.FieldSchema{{Name: "a", Kind: entity.KindString}}}))

	assert.Equal(t, []string{"Alpha", "Zed"}, reg.Names())
	assert.Nil(t, reg.Get("Nope"))
}
