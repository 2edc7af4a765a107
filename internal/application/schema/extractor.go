// Package schema 提供类型内省与可移植 Schema 提取
package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"schemaforge-api/internal/domain/entity"
)

// EnumNamer 封闭取值集类型需实现的接口：按序返回全部合法取值名。
// 约定：底层为 int，序号即取值在返回切片中的下标。
type EnumNamer interface {
	EnumNames() []string
}

var enumNamerType = reflect.TypeOf((*EnumNamer)(nil)).Elem()

// Extractor 将 Go 结构体类型反射为可移植 TypeSchema。
// 纯函数式：不持有状态，同一类型多次提取结果一致。
type Extractor struct{}

// NewExtractor 创建提取器
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract 枚举类型的导出字段并生成 TypeSchema。
// 约束读取优先级：gen 标签显式约束 > range 标签区间提示 > min 标签下界提示 > 封闭取值集的取值名列表。
// 没有导出字段的类型返回零字段 Schema，不报错。
func (e *Extractor) Extract(t reflect.Type) (*entity.TypeSchema, error) {
	if t == nil {
		return nil, fmt.Errorf("type is nil")
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema extraction requires a struct type, got %s", t.Kind())
	}

	s := &entity.TypeSchema{
		TypeName: t.Name(),
		Fields:   make([]entity.FieldSchema, 0, t.NumField()),
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() || sf.Anonymous {
			continue
		}

		f := entity.FieldSchema{
			Name:        fieldName(sf),
			Description: sf.Tag.Get("desc"),
		}
		if f.Name == "-" {
			continue
		}

		f.Kind = mapKind(sf.Type)
		f.EnumValues = enumValues(sf.Type)

		applyConstraints(&f, sf.Tag)
		f.DefaultValue = defaultValue(&f)

		s.Fields = append(s.Fields, f)
	}

	return s, nil
}

// fieldName 取 json 标签名，缺省用字段原名
func fieldName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" {
		return sf.Name
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		return sf.Name
	}
	return name
}

// mapKind Go 类型到六种 Schema 类别的映射
func mapKind(t reflect.Type) entity.FieldKind {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return entity.KindString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return entity.KindInteger
	case reflect.Float32, reflect.Float64:
		return entity.KindNumber
	case reflect.Bool:
		return entity.KindBoolean
	case reflect.Slice, reflect.Array:
		return entity.KindArray
	default:
		return entity.KindObject
	}
}

// enumValues 封闭取值集字段的取值名；非枚举类型返回 nil
func enumValues(t reflect.Type) []string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	var namer EnumNamer
	switch {
	case t.Implements(enumNamerType):
		namer, _ = reflect.Zero(t).Interface().(EnumNamer)
	case reflect.PtrTo(t).Implements(enumNamerType):
		namer, _ = reflect.New(t).Interface().(EnumNamer)
	default:
		return nil
	}
	if namer == nil {
		return nil
	}
	names := namer.EnumNames()
	if len(names) == 0 {
		return nil
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// applyConstraints 按优先级读取字段约束标签。
// gen 标签显式声明的 min/max/required/enum 始终压过通用区间提示。
func applyConstraints(f *entity.FieldSchema, tag reflect.StructTag) {
	if gen, ok := tag.Lookup("gen"); ok && gen != "" {
		applyGenTag(f, gen)
		return
	}

	if rng, ok := tag.Lookup("range"); ok && rng != "" {
		parts := strings.SplitN(rng, ",", 2)
		if len(parts) == 2 {
			if lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err == nil {
				f.MinValue = &lo
			}
			if hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err == nil {
				f.MaxValue = &hi
			}
		}
		return
	}

	if min, ok := tag.Lookup("min"); ok && min != "" {
		if lo, err := strconv.ParseFloat(strings.TrimSpace(min), 64); err == nil {
			f.MinValue = &lo
		}
	}
}

// applyGenTag 解析 gen:"required,min=0,max=100,enum=A|B|C" 形式的显式约束
func applyGenTag(f *entity.FieldSchema, gen string) {
	for _, part := range strings.Split(gen, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "required":
			f.Required = true
		case strings.HasPrefix(part, "min="):
			if v, err := strconv.ParseFloat(part[len("min="):], 64); err == nil {
				f.MinValue = &v
			}
		case strings.HasPrefix(part, "max="):
			if v, err := strconv.ParseFloat(part[len("max="):], 64); err == nil {
				f.MaxValue = &v
			}
		case strings.HasPrefix(part, "enum="):
			vals := strings.Split(part[len("enum="):], "|")
			cleaned := make([]string, 0, len(vals))
			for _, v := range vals {
				if v = strings.TrimSpace(v); v != "" {
					cleaned = append(cleaned, v)
				}
			}
			if len(cleaned) > 0 {
				f.EnumValues = cleaned
			}
		}
	}
}

// defaultValue 按类别计算代表性默认值
func defaultValue(f *entity.FieldSchema) any {
	if f.IsEnum() {
		return f.EnumValues[0]
	}
	switch f.Kind {
	case entity.KindString:
		return ""
	case entity.KindInteger:
		if f.MinValue != nil {
			return int(*f.MinValue)
		}
		return 0
	case entity.KindNumber:
		if f.MinValue != nil {
			return *f.MinValue
		}
		return 0.0
	case entity.KindBoolean:
		return false
	case entity.KindArray:
		return []any{}
	default:
		return map[string]any{}
	}
}
