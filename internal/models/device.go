package models

import (
	"fmt"
	"time"
)

// DeviceInfo 云端设备列表中的一台设备
type DeviceInfo struct {
	DeviceID    string            `json:"deviceId"`
	PUID        string            `json:"puid"`
	Name        string            `json:"deviceName"`
	TypeCode    string            `json:"deviceTypeCode"`
	FeatureCode string            `json:"deviceFeatureCode"`
	FeatureName string            `json:"deviceFeatureName"`
	StatusList  map[string]string `json:"statusList"`
	FailedData  []string          `json:"failedData"`
	StaticData  map[string]string `json:"staticData"`
}

// DebugString 返回排查用的设备摘要
func (d *DeviceInfo) DebugString() string {
	return fmt.Sprintf("device_id=%s puid=%s name=%s type=%s-%s status_keys=%d",
		d.DeviceID, d.PUID, d.Name, d.TypeCode, d.FeatureCode, len(d.StatusList))
}

// DeviceStatus 设备状态快照（当前对设备状态的权威认知）
// Properties 中的值类型：数值属性为 float64，其余为原始字符串
type DeviceStatus struct {
	DeviceID   string         `json:"device_id"`
	Properties map[string]any `json:"properties"`
	Online     bool           `json:"online"`
	LastUpdate time.Time      `json:"last_update"`
}

// Update 合并一次解码结果
func (s *DeviceStatus) Update(properties map[string]any) {
	if s.Properties == nil {
		s.Properties = make(map[string]any, len(properties))
	}
	for k, v := range properties {
		s.Properties[k] = v
	}
	s.LastUpdate = time.Now().UTC()
}

// PropertyRecord 服务端能力表（get_property_list）中的一条属性记录
// PropertyValueList 是逗号分隔的允许取值，可能为空
type PropertyRecord struct {
	PropertyKey       string `json:"propertyKey"`
	PropertyValueList string `json:"propertyValueList,omitempty"`
}
