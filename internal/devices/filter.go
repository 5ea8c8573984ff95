package devices

import (
	"strings"

	"github.com/Connectlife-LLC/Connectlife-Cloud/internal/models"
)

// KeyPowerConsumption bean 类过滤后强制存在的能耗属性
const KeyPowerConsumption = "f_power_consumption"

// filterByProperties 能力过滤核心：
// 只保留服务端能力表里出现的属性；带允许值列表的枚举属性，
// 其值映射与允许值求交集，并把允许值记录为该属性的取值范围。
// 输入异常（空模板）时退化成空视图而不是报错
func filterByProperties(schema Schema, props []models.PropertyRecord) View {
	view := make(View)
	if schema == nil {
		return view
	}
	for _, prop := range props {
		key := prop.PropertyKey
		if key == "" {
			continue
		}
		attr, ok := schema[key]
		if !ok {
			continue
		}
		dup := attr.Clone()
		if prop.PropertyValueList != "" {
			allowed := strings.Split(prop.PropertyValueList, ",")
			dup.ValueRange = allowed
			if dup.ValueMap != nil {
				set := make(map[string]struct{}, len(allowed))
				for _, v := range allowed {
					set[v] = struct{}{}
				}
				dup.ValueMap = dup.ValueMap.Intersect(set)
			}
		}
		view[key] = dup
	}
	return view
}

// FilterBean bean 类设备的能力过滤，过滤后强制注入只读能耗属性
func FilterBean(schema Schema, props []models.PropertyRecord) View {
	view := filterByProperties(schema, props)
	if !view.Has(KeyPowerConsumption) {
		view[KeyPowerConsumption] = &Attribute{
			Key:       KeyPowerConsumption,
			Name:      "Power Consumption",
			Type:      TypeNumber,
			ReadWrite: ReadOnly,
			Step:      1,
		}
	}
	return view
}

// FilterHumidity 除湿类设备的能力过滤，算法同 bean 类但不注入能耗属性
func FilterHumidity(schema Schema, props []models.PropertyRecord) View {
	return filterByProperties(schema, props)
}

// WaterHeaterView 双温区热泵不走能力过滤，直接复制模板；
// 设备实时状态上报 zone2 不可用（f_zone2_select == "0"）时
// 摘掉第二温区的实际值和设置值两个属性
func WaterHeaterView(schema Schema, status map[string]string) View {
	view := View(schema.Clone())
	if status[KeyZone2Select] == "0" {
		view.Remove(KeyZone2WaterTmp)
		view.Remove(KeyZone2SetTemp)
	}
	return view
}

// StaticView 静态变体直接复制模板
func StaticView(schema Schema) View {
	return View(schema.Clone())
}

// SupportsPowerMonitoring 判断设备是否具备电量统计能力。
// 常规变体看能力表里的属性键；静态变体（功能码含 99）看静态数据标志位
func SupportsPowerMonitoring(typeCode, featureCode string, props []models.PropertyRecord, static map[string]string) bool {
	keys := make(map[string]struct{}, len(props))
	for _, p := range props {
		if p.PropertyKey != "" {
			keys[p.PropertyKey] = struct{}{}
		}
	}
	hasKey := func(names ...string) bool {
		for _, n := range names {
			if _, ok := keys[n]; ok {
				return true
			}
		}
		return false
	}

	switch typeCode {
	case TypeSplitAC:
		if !IsStaticFeature(featureCode) {
			return hasKey("f_power_display", "f_cool_qvalue", "f_heat_qvalue")
		}
		return static["Power_function"] == "1" || static["f_cool_or_heat_qvalue"] == "1"
	case TypeWindowAC, TypePortableAC, TypeDehumidifier:
		if !IsStaticFeature(featureCode) {
			return hasKey("f_power_display")
		}
		return static["Power_function"] == "1"
	default:
		return hasKey("f_power_display", "f_cool_qvalue", "f_heat_qvalue")
	}
}
