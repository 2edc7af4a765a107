package schema

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"schemaforge-api/internal/domain/entity"
)

// Registration 一条类型注册：可移植 Schema + 可选的 Go 原生类型。
// GoType 为 nil 时表示通过显式 Schema 定义 API 注册，结构化解析落到 map。
type Registration struct {
	Schema *entity.TypeSchema
	GoType reflect.Type
}

// NewInstance 新建一个用于结构化解析的目标实例指针
func (r *Registration) NewInstance() any {
	if r.GoType != nil {
		return reflect.New(r.GoType).Interface()
	}
	return &map[string]any{}
}

// Registry 类型注册表：名称 -> 注册信息，Schema 提取结果带缓存
type Registry struct {
	mu        sync.RWMutex
	entries   map[string]*Registration
	extractor *Extractor
}

// NewRegistry 创建注册表
func NewRegistry() *Registry {
	return &Registry{
		entries:   make(map[string]*Registration),
		extractor: NewExtractor(),
	}
}

// RegisterType 通过反射注册一个 Go 结构体类型，名称取类型名
func (r *Registry) RegisterType(prototype any) (*entity.TypeSchema, error) {
	if prototype == nil {
		return nil, fmt.Errorf("prototype is nil")
	}
	t := reflect.TypeOf(prototype)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	s, err := r.extractor.Extract(t)
	if err != nil {
		return nil, err
	}
	if err := ValidateTemplate(s); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[s.TypeName]; exists {
		return nil, fmt.Errorf("type %s already registered", s.TypeName)
	}
	r.entries[s.TypeName] = &Registration{Schema: s, GoType: t}
	return s, nil
}

// RegisterSchema 显式 Schema 定义入口：无需 Go 类型，直接注册手工构建的 Schema
func (r *Registry) RegisterSchema(s *entity.TypeSchema) error {
	if s == nil || s.TypeName == "" {
		return fmt.Errorf("schema or type name missing")
	}
	if err := ValidateTemplate(s); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[s.TypeName]; exists {
		return fmt.Errorf("type %s already registered", s.TypeName)
	}
	r.entries[s.TypeName] = &Registration{Schema: s}
	return nil
}

// Get 按名称取注册信息，未注册返回 nil
func (r *Registry) Get(typeName string) *Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[typeName]
}

// Names 返回全部已注册类型名（字典序）
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
