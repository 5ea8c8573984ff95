package devices

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 目录声明的所有 (类型码, 功能码) 组合都必须能解析出模板
func TestSchemaFor_AllCatalogEntries(t *testing.T) {
	pairs := []struct {
		typeCode    string
		featureCode string
		class       Class
	}{
		{TypeSplitAC, "100", ClassBean},
		{TypeSplitAC, "199", ClassBean},
		{TypeWindowAC, "100", ClassBean},
		{TypePortableAC, "100", ClassBean},
		{TypePortableAC, "299", ClassBeanStatic},
		{TypePortableACv2, "100", ClassBean},
		{TypeDehumidifier, "100", ClassHumidity},
		{TypeDehumidifier, "299", ClassHumidity},
		{TypeWaterHeater, "699", ClassWaterHeater},
		{TypeWaterHeater, "100", ClassWaterHeater},
	}

	for _, p := range pairs {
		schema, err := SchemaFor(p.typeCode, p.featureCode)
		require.NoError(t, err, "type %s feature %s", p.typeCode, p.featureCode)
		assert.NotEmpty(t, schema)

		class, err := ClassFor(p.typeCode, p.featureCode)
		require.NoError(t, err)
		assert.Equal(t, p.class, class)
	}
}

func TestSchemaFor_UnsupportedType(t *testing.T) {
	_, err := SchemaFor("042", "100")
	require.Error(t, err)

	var unsupported *UnsupportedDeviceError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "042", unsupported.TypeCode)
	assert.Equal(t, "100", unsupported.FeatureCode)
}

// 每次查询返回独立模板实例，改一个不影响下一个
func TestSchemaFor_FreshInstances(t *testing.T) {
	first, err := SchemaFor(TypeSplitAC, "100")
	require.NoError(t, err)
	delete(first, "t_power")

	second, err := SchemaFor(TypeSplitAC, "100")
	require.NoError(t, err)
	assert.Contains(t, second, "t_power")
}

func TestSupportedType(t *testing.T) {
	for _, code := range []string{TypeSplitAC, TypeWindowAC, TypeDehumidifier, TypePortableAC, TypePortableACv2, TypeWaterHeater} {
		assert.True(t, SupportedType(code), code)
	}
	assert.False(t, SupportedType("001"))
	assert.False(t, SupportedType(""))
}

func TestIsStaticFeature(t *testing.T) {
	assert.True(t, IsStaticFeature("199"))
	assert.True(t, IsStaticFeature("299"))
	assert.True(t, IsStaticFeature("699"))
	assert.True(t, IsStaticFeature("991"))
	assert.False(t, IsStaticFeature("100"))
	assert.False(t, IsStaticFeature(""))
}
