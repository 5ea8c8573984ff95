package models

// PushChannelInfo 服务端分配的推送通道
type PushChannelInfo struct {
	PushChannel string `json:"pushChannel"`
}

// NotificationInfo 推送握手返回的连接参数
type NotificationInfo struct {
	PushServerIP      string            `json:"pushServerIp"`
	PushServerSSLPort int               `json:"pushServerSslPort"`
	HBInterval        int               `json:"hbInterval"`
	HBFailTimes       int               `json:"hbFailTimes"`
	PushChannels      []PushChannelInfo `json:"pushChannelList"`
}

// Channel 返回第一个可用通道，没有则返回空串
func (n *NotificationInfo) Channel() string {
	if n == nil || len(n.PushChannels) == 0 {
		return ""
	}
	return n.PushChannels[0].PushChannel
}
