package devices

import "strings"

// 支持的设备类型码
const (
	TypeSplitAC      = "009"
	TypeWindowAC     = "008"
	TypeDehumidifier = "007"
	TypePortableAC   = "006"
	TypePortableACv2 = "016"
	TypeWaterHeater  = "035"
)

// Class 决定发现阶段套用哪套过滤策略
type Class int

const (
	// ClassBean bean 类：走能力列表过滤，强制注入能耗属性
	ClassBean Class = iota
	// ClassBeanStatic bean 类静态变体：完全绕过过滤，直接用模板
	ClassBeanStatic
	// ClassHumidity 除湿类：走能力列表过滤，不注入能耗属性
	ClassHumidity
	// ClassWaterHeater 双温区热泵：不过滤，但按 zone2 可用性裁剪
	ClassWaterHeater
)

// variant 一个 (类型码, 功能码) 变体：过滤策略 + 模板构造函数
// 模板用构造函数而不是共享实例，保证每次查询拿到的都是独立副本
type variant struct {
	class  Class
	schema func() Schema
}

// 精确 (type/feature) 变体优先于类型默认变体
var exactVariants = map[string]variant{
	TypePortableAC + "/299":  {ClassBeanStatic, PortableACSchema},
	TypeWaterHeater + "/699": {ClassWaterHeater, WaterHeaterSchema},
}

var typeVariants = map[string]variant{
	TypeSplitAC:      {ClassBean, SplitACSchema},
	TypeWindowAC:     {ClassBean, WindowACSchema},
	TypePortableAC:   {ClassBean, PortableACSchema},
	TypePortableACv2: {ClassBean, PortableACSchema},
	TypeDehumidifier: {ClassHumidity, DehumidifierSchema},
	TypeWaterHeater:  {ClassWaterHeater, WaterHeaterSchema},
}

func lookupVariant(typeCode, featureCode string) (variant, error) {
	if v, ok := exactVariants[typeCode+"/"+featureCode]; ok {
		return v, nil
	}
	if v, ok := typeVariants[typeCode]; ok {
		return v, nil
	}
	return variant{}, &UnsupportedDeviceError{TypeCode: typeCode, FeatureCode: featureCode}
}

// SchemaFor 返回 (类型码, 功能码) 对应的全新模板实例
func SchemaFor(typeCode, featureCode string) (Schema, error) {
	v, err := lookupVariant(typeCode, featureCode)
	if err != nil {
		return nil, err
	}
	return v.schema(), nil
}

// ClassFor 返回 (类型码, 功能码) 对应的过滤策略
func ClassFor(typeCode, featureCode string) (Class, error) {
	v, err := lookupVariant(typeCode, featureCode)
	if err != nil {
		return 0, err
	}
	return v.class, nil
}

// SupportedType 判断类型码是否在目录里
func SupportedType(typeCode string) bool {
	_, ok := typeVariants[typeCode]
	return ok
}

// IsStaticFeature 功能码含 "99" 的变体属性能力来自静态数据而不是能力列表
func IsStaticFeature(featureCode string) bool {
	return strings.Contains(featureCode, "99")
}
