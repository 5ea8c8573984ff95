package devices

import "fmt"

// UnsupportedDeviceError 没有任何模板能匹配该设备的类型/功能码
// 调用方应跳过该设备，而不是中断整个发现流程
type UnsupportedDeviceError struct {
	TypeCode    string
	FeatureCode string
}

func (e *UnsupportedDeviceError) Error() string {
	return fmt.Sprintf("unsupported device type %s feature %s", e.TypeCode, e.FeatureCode)
}
