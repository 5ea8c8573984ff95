package devices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueMap_PreservesInsertionOrder(t *testing.T) {
	vm := NewValueMap(
		"4", "自动 Auto",
		"2", "制冷 Cool",
		"1", "制热 Heat",
	)

	assert.Equal(t, []string{"4", "2", "1"}, vm.Keys())

	desc, ok := vm.Get("2")
	require.True(t, ok)
	assert.Equal(t, "制冷 Cool", desc)

	_, ok = vm.Get("9")
	assert.False(t, ok)
}

func TestNewValueMap_OddPairsPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewValueMap("1", "one", "2")
	})
}

func TestValueMap_Intersect(t *testing.T) {
	vm := NewValueMap(
		"0", "送风 Fan",
		"1", "制热 Heat",
		"2", "制冷 Cool",
	)

	got := vm.Intersect(map[string]struct{}{"2": {}, "0": {}})

	// 交集保持原有顺序
	assert.Equal(t, []string{"0", "2"}, got.Keys())
	// 原值映射不变
	assert.Equal(t, 3, vm.Len())
}

func TestValueMap_Clone(t *testing.T) {
	vm := NewValueMap("1", "one")
	dup := vm.Clone()

	dup.put("2", "two")

	assert.Equal(t, 1, vm.Len())
	assert.Equal(t, 2, dup.Len())
}

func TestAttribute_CloneIsDeep(t *testing.T) {
	attr := &Attribute{
		Key:        "t_work_mode",
		Type:       TypeEnum,
		ReadWrite:  ReadWrite,
		ValueRange: []string{"1", "2"},
		ValueMap:   NewValueMap("1", "制热", "2", "制冷"),
	}

	dup := attr.Clone()
	dup.ValueRange[0] = "9"
	dup.ValueMap.put("3", "除湿")

	assert.Equal(t, "1", attr.ValueRange[0])
	assert.Equal(t, 2, attr.ValueMap.Len())
}

func TestSchema_Clone(t *testing.T) {
	schema := SplitACSchema()
	dup := schema.Clone()

	delete(dup, "t_power")
	dup["t_temp"].Name = "changed"

	assert.Contains(t, schema, "t_power")
	assert.NotEqual(t, "changed", schema["t_temp"].Name)
}
