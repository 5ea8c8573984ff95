package push

import "errors"

var (
	// ErrHandshakeFailed 握手阶段(注册推送码/获取通知参数)失败，通道直接关闭不重试
	ErrHandshakeFailed = errors.New("push handshake failed")

	// ErrRetriesExhausted 连续重连失败超过上限后置入的终态错误
	ErrRetriesExhausted = errors.New("push reconnect attempts exhausted")

	// ErrAlreadyConnected 通道已处于活动状态时再次 Connect
	ErrAlreadyConnected = errors.New("push channel already connected")
)
