package devices

// AttrType 属性值类型标签
type AttrType string

const (
	TypeNumber  AttrType = "Number"
	TypeEnum    AttrType = "Enum"
	TypeText    AttrType = "Text"
	TypeBoolean AttrType = "Boolean"
)

// 读写模式
const (
	ReadOnly  = "R"
	ReadWrite = "RW"
)

// ValueMap 有序的 原始值→描述 映射
// 反查（按目标模式找原始值）依赖插入顺序：第一个命中者胜出，
// 所以这里不能直接用 Go 的无序 map
type ValueMap struct {
	keys   []string
	values map[string]string
}

// NewValueMap 按 原始值, 描述, 原始值, 描述... 的顺序构造有序映射
// 参数个数必须为偶数，属于模板编写错误时直接 panic
func NewValueMap(pairs ...string) *ValueMap {
	if len(pairs)%2 != 0 {
		panic("devices: NewValueMap requires raw/description pairs")
	}
	vm := &ValueMap{values: make(map[string]string, len(pairs)/2)}
	for i := 0; i < len(pairs); i += 2 {
		vm.put(pairs[i], pairs[i+1])
	}
	return vm
}

func (m *ValueMap) put(raw, desc string) {
	if _, ok := m.values[raw]; !ok {
		m.keys = append(m.keys, raw)
	}
	m.values[raw] = desc
}

// Get 返回原始值对应的描述
func (m *ValueMap) Get(raw string) (string, bool) {
	if m == nil {
		return "", false
	}
	desc, ok := m.values[raw]
	return desc, ok
}

// Len 条目数
func (m *ValueMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys 返回按插入顺序排列的原始值副本
func (m *ValueMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Clone 深拷贝
func (m *ValueMap) Clone() *ValueMap {
	if m == nil {
		return nil
	}
	vm := &ValueMap{
		keys:   make([]string, len(m.keys)),
		values: make(map[string]string, len(m.values)),
	}
	copy(vm.keys, m.keys)
	for k, v := range m.values {
		vm.values[k] = v
	}
	return vm
}

// Intersect 生成只保留 allowed 中原始值的新映射，保持原有顺序
func (m *ValueMap) Intersect(allowed map[string]struct{}) *ValueMap {
	if m == nil {
		return nil
	}
	vm := &ValueMap{values: make(map[string]string)}
	for _, k := range m.keys {
		if _, ok := allowed[k]; ok {
			vm.put(k, m.values[k])
		}
	}
	return vm
}

// Attribute 一条可读或可控的设备属性
type Attribute struct {
	Key        string
	Name       string
	Type       AttrType
	ReadWrite  string
	Step       float64
	ValueRange []string
	ValueMap   *ValueMap
}

// Clone 深拷贝；过滤永远作用在副本上，模板本身不被改写
func (a *Attribute) Clone() *Attribute {
	if a == nil {
		return nil
	}
	dup := *a
	if a.ValueRange != nil {
		dup.ValueRange = make([]string, len(a.ValueRange))
		copy(dup.ValueRange, a.ValueRange)
	}
	dup.ValueMap = a.ValueMap.Clone()
	return &dup
}

// Schema 某个设备类型变体的属性模板，key → Attribute
type Schema map[string]*Attribute

// Clone 深拷贝整个模板
func (s Schema) Clone() Schema {
	out := make(Schema, len(s))
	for k, a := range s {
		out[k] = a.Clone()
	}
	return out
}

// View 按能力过滤后的单台设备属性视图
// 能力发现重跑时整体替换，不做原地修补
type View map[string]*Attribute

// Remove 删除一条属性（不存在时无副作用）
func (v View) Remove(key string) {
	delete(v, key)
}

// Has 判断属性是否在视图中
func (v View) Has(key string) bool {
	_, ok := v[key]
	return ok
}

func schemaAttrs(attrs ...*Attribute) Schema {
	s := make(Schema, len(attrs))
	for _, a := range attrs {
		s[a.Key] = a
	}
	return s
}
