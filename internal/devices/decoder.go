package devices

import "strconv"

// Decode 按视图把原始状态载荷转成带类型的属性值。
// 数值属性尝试数值解析，解析不了就回退为原始字符串；
// 视图之外的键静默丢弃（设备未暴露的能力）；
// 视图里有但载荷里没有的键保持缺省（不赋默认值）。
// 单个字段出错只影响该字段，其余字段照常解码
func Decode(view View, raw map[string]string) map[string]any {
	out := make(map[string]any, len(raw))
	for key, value := range raw {
		attr, ok := view[key]
		if !ok {
			continue
		}
		if attr.Type == TypeNumber {
			if n, err := strconv.ParseFloat(value, 64); err == nil {
				out[key] = n
				continue
			}
		}
		out[key] = value
	}
	return out
}
