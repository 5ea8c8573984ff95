package push

// State 推送通道连接生命周期状态
type State int32

const (
	StateIdle State = iota
	StateHandshaking
	StateConnected
	StateListening
	StateReconnecting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHandshaking:
		return "handshaking"
	case StateConnected:
		return "connected"
	case StateListening:
		return "listening"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
