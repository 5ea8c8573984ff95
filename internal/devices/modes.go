package devices

import "strings"

// 标准工作模式词汇表
const (
	ModeAuto    = "auto"
	ModeCool    = "cool"
	ModeHeat    = "heat"
	ModeDry     = "dry"
	ModeFanOnly = "fan_only"
	ModeOff     = "off"
)

// 标准风速词汇表
const (
	FanAuto       = "auto"
	FanUltraLow   = "ultra_low"
	FanLow        = "low"
	FanMediumLow  = "medium_low"
	FanMedium     = "medium"
	FanMediumHigh = "medium_high"
	FanHigh       = "high"
	FanUltraHigh  = "ultra_high"
)

// NormalizeWorkMode 把设备下发的模式描述（中文或英文）归一到标准词汇
// 子串匹配，按 auto/cool/heat/dry/fan/off 的固定优先级，先命中先赢
func NormalizeWorkMode(desc string) (string, bool) {
	lower := strings.ToLower(desc)
	switch {
	case strings.Contains(desc, "自动") || strings.Contains(lower, "auto"):
		return ModeAuto, true
	case strings.Contains(desc, "制冷") || strings.Contains(lower, "cool"):
		return ModeCool, true
	case strings.Contains(desc, "制热") || strings.Contains(lower, "heat"):
		return ModeHeat, true
	case strings.Contains(desc, "除湿") || strings.Contains(lower, "dry"):
		return ModeDry, true
	case strings.Contains(desc, "送风") || strings.Contains(lower, "fan"):
		return ModeFanOnly, true
	case strings.Contains(desc, "关") || strings.Contains(lower, "off"):
		return ModeOff, true
	}
	return "", false
}

// NormalizeFanMode 把风速描述归一到标准词汇
// 短词条（低/中/高/low/high...）全等匹配，复合词（medium high 等）子串匹配
func NormalizeFanMode(desc string) (string, bool) {
	lower := strings.ToLower(desc)
	switch {
	case desc == "自动" || lower == "auto":
		return FanAuto, true
	case desc == "超低" || strings.Contains(lower, "ultra low"):
		return FanUltraLow, true
	case desc == "低" || lower == "low":
		return FanLow, true
	case desc == "中" || lower == "medium" || lower == "med":
		return FanMedium, true
	case desc == "高" || lower == "high":
		return FanHigh, true
	case desc == "超高" || strings.Contains(lower, "ultra high"):
		return FanUltraHigh, true
	case strings.Contains(lower, "medium_low") || strings.Contains(lower, "medium low") || desc == "中低":
		return FanMediumLow, true
	case strings.Contains(lower, "medium_high") || strings.Contains(lower, "medium high") || desc == "中高":
		return FanMediumHigh, true
	}
	return "", false
}

// WorkModeFor 根据值映射把设备原始值投影成标准工作模式
func WorkModeFor(vm *ValueMap, raw string) (string, bool) {
	desc, ok := vm.Get(raw)
	if !ok {
		return "", false
	}
	return NormalizeWorkMode(desc)
}

// FanModeFor 根据值映射把设备原始值投影成标准风速
func FanModeFor(vm *ValueMap, raw string) (string, bool) {
	desc, ok := vm.Get(raw)
	if !ok {
		return "", false
	}
	return NormalizeFanMode(desc)
}

// DeviceValueForWorkMode 反查：找出归一结果等于目标模式的第一个原始值
// 多个原始值归一到同一模式时只返回插入顺序上的第一个（单一答案契约）
func DeviceValueForWorkMode(vm *ValueMap, mode string) (string, bool) {
	if vm == nil {
		return "", false
	}
	for _, raw := range vm.Keys() {
		desc, _ := vm.Get(raw)
		if got, ok := NormalizeWorkMode(desc); ok && got == mode {
			return raw, true
		}
	}
	return "", false
}

// DeviceValueForFanMode 反查风速对应的设备原始值
func DeviceValueForFanMode(vm *ValueMap, mode string) (string, bool) {
	if vm == nil {
		return "", false
	}
	for _, raw := range vm.Keys() {
		desc, _ := vm.Get(raw)
		if got, ok := NormalizeFanMode(desc); ok && got == mode {
			return raw, true
		}
	}
	return "", false
}
