package push

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Connectlife-LLC/Connectlife-Cloud/internal/models"
)

const (
	defaultHeartbeat   = 30 * time.Second
	defaultMaxFails    = 3
	defaultDedupWindow = time.Second
	defaultBackoffBase = 5 * time.Second
	defaultBackoffCap  = 30 * time.Second

	writeControlWait = 10 * time.Second
)

// Backend 握手阶段需要的云端接口
type Backend interface {
	RegisterPushCode(ctx context.Context, phoneCode, token string) error
	GetNotificationInfo(ctx context.Context, phoneCode, token string) (*models.NotificationInfo, error)
}

// TokenFunc 提供当前有效的访问令牌，重连时会再次调用
type TokenFunc func(ctx context.Context) (string, error)

// MessageFunc 收到一条解码后的推送消息
type MessageFunc func(msg map[string]any)

// Options 推送通道可调参数，零值取默认
type Options struct {
	Heartbeat   time.Duration
	MaxFails    int
	DedupWindow time.Duration
	BackoffBase time.Duration
	BackoffCap  time.Duration
	// Insecure 使用 ws:// 而非 wss://
	Insecure bool
}

// Channel 维护到推送服务器的长连接：注册手机码换取通知参数，
// 连接后持续监听，断线按指数退避重连，超过失败上限进入终态
type Channel struct {
	backend   Backend
	getToken  TokenFunc
	onMessage MessageFunc
	logger    *zap.Logger

	dialer *websocket.Dialer
	scheme string

	heartbeat   time.Duration
	maxFails    int
	dedupWindow time.Duration
	backoffBase time.Duration
	backoffCap  time.Duration

	mu        sync.Mutex
	state     State
	phoneCode string
	info      *models.NotificationInfo
	conn      *websocket.Conn
	cancel    context.CancelFunc
	done      chan struct{}
	closing   bool
	termErr   error

	// 仅监听协程访问
	lastMessage time.Time
}

// NewChannel 创建推送通道，Connect 之前不会产生任何网络活动
func NewChannel(backend Backend, getToken TokenFunc, onMessage MessageFunc, logger *zap.Logger, opts Options) *Channel {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Channel{
		backend:     backend,
		getToken:    getToken,
		onMessage:   onMessage,
		logger:      logger,
		dialer:      websocket.DefaultDialer,
		scheme:      "wss",
		heartbeat:   opts.Heartbeat,
		maxFails:    opts.MaxFails,
		dedupWindow: opts.DedupWindow,
		backoffBase: opts.BackoffBase,
		backoffCap:  opts.BackoffCap,
		state:       StateIdle,
	}
	if opts.Insecure {
		c.scheme = "ws"
	}
	if c.heartbeat <= 0 {
		c.heartbeat = defaultHeartbeat
	}
	if c.maxFails <= 0 {
		c.maxFails = defaultMaxFails
	}
	if c.dedupWindow <= 0 {
		c.dedupWindow = defaultDedupWindow
	}
	if c.backoffBase <= 0 {
		c.backoffBase = defaultBackoffBase
	}
	if c.backoffCap <= 0 {
		c.backoffCap = defaultBackoffCap
	}
	return c
}

// State 返回当前生命周期状态
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err 返回终态错误，通道仍活动或正常关闭时为 nil
func (c *Channel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.termErr
}

// Done 返回监听协程退出时关闭的通道，尚未 Connect 时为 nil
func (c *Channel) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Connect 同步执行握手(生成手机码、注册、获取通知参数)，
// 成功后启动监听协程并立即返回。握手任一步失败直接进入 Closed，
// 返回 ErrHandshakeFailed 包裹的错误且不重试。
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle && c.state != StateClosed {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.state = StateHandshaking
	c.closing = false
	c.termErr = nil
	c.phoneCode = uuid.NewString()
	code := c.phoneCode
	c.mu.Unlock()

	c.logger.Info("Starting push channel handshake")

	token, err := c.getToken(ctx)
	if err != nil {
		return c.failHandshake(fmt.Errorf("get access token: %w", err))
	}
	if err := c.backend.RegisterPushCode(ctx, code, token); err != nil {
		return c.failHandshake(fmt.Errorf("register push code: %w", err))
	}
	info, err := c.backend.GetNotificationInfo(ctx, code, token)
	if err != nil {
		return c.failHandshake(fmt.Errorf("get notification info: %w", err))
	}
	if info == nil || info.Channel() == "" || info.PushServerIP == "" {
		return c.failHandshake(errors.New("notification info missing push channel"))
	}

	c.mu.Lock()
	c.info = info
	if info.HBInterval > 0 {
		c.heartbeat = time.Duration(info.HBInterval) * time.Second
	}
	if info.HBFailTimes > 0 {
		c.maxFails = info.HBFailTimes
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	c.logger.Info("Push handshake complete",
		zap.String("server", info.PushServerIP),
		zap.Int("port", info.PushServerSSLPort),
		zap.String("channel", info.Channel()))

	go c.run(runCtx, done)
	return nil
}

// Disconnect 主动关闭通道并等待监听协程退出，可重复调用
func (c *Channel) Disconnect() {
	c.mu.Lock()
	c.closing = true
	cancel := c.cancel
	c.cancel = nil
	conn := c.conn
	done := c.done
	c.mu.Unlock()

	if conn != nil {
		deadline := time.Now().Add(writeControlWait)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = conn.Close()
	}
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	c.setState(StateClosed)
	c.logger.Info("Push channel disconnected")
}

func (c *Channel) failHandshake(err error) error {
	c.mu.Lock()
	c.state = StateClosed
	c.termErr = fmt.Errorf("%w: %v", ErrHandshakeFailed, err)
	terr := c.termErr
	c.mu.Unlock()
	c.logger.Error("Push handshake failed", zap.Error(err))
	return terr
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Channel) isClosing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closing
}

// run 连接/监听/重连循环。连接成功会清零失败计数，
// 每次断开计一次失败，超过上限后进入 Closed 并记录终态错误。
func (c *Channel) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer c.setState(StateClosed)

	failures := 0
	for {
		connected, err := c.listenOnce(ctx)
		if c.isClosing() || ctx.Err() != nil {
			return
		}
		if connected {
			failures = 0
		}
		failures++
		if err != nil {
			c.logger.Warn("Push connection lost", zap.Error(err), zap.Int("failures", failures))
		}
		if failures > c.maxFails {
			c.logger.Error("Push reconnect attempts exhausted", zap.Int("maxFails", c.maxFails))
			c.mu.Lock()
			c.termErr = ErrRetriesExhausted
			c.mu.Unlock()
			return
		}

		c.setState(StateReconnecting)
		delay := backoffDelay(failures, c.backoffBase, c.backoffCap)
		c.logger.Info("Reconnecting push channel",
			zap.Int("attempt", failures), zap.Duration("delay", delay))
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		if c.isClosing() {
			return
		}
		if err := c.refresh(ctx); err != nil {
			c.logger.Warn("Failed to refresh push parameters", zap.Error(err))
		}
	}
}

// refresh 重连前重取令牌并重新注册手机码，保证通知参数有效
func (c *Channel) refresh(ctx context.Context) error {
	token, err := c.getToken(ctx)
	if err != nil {
		return fmt.Errorf("get access token: %w", err)
	}
	c.mu.Lock()
	code := c.phoneCode
	c.mu.Unlock()
	if err := c.backend.RegisterPushCode(ctx, code, token); err != nil {
		return fmt.Errorf("register push code: %w", err)
	}
	info, err := c.backend.GetNotificationInfo(ctx, code, token)
	if err != nil {
		return fmt.Errorf("get notification info: %w", err)
	}
	if info != nil && info.Channel() != "" {
		c.mu.Lock()
		c.info = info
		c.mu.Unlock()
	}
	return nil
}

// listenOnce 建立一次连接并持续读消息，返回是否曾成功建连
func (c *Channel) listenOnce(ctx context.Context) (bool, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return false, fmt.Errorf("get access token: %w", err)
	}

	c.mu.Lock()
	info := c.info
	code := c.phoneCode
	c.mu.Unlock()
	if info == nil {
		return false, errors.New("notification info not available")
	}

	endpoint := fmt.Sprintf("%s://%s:%d/ws/%s?phoneCode=%s&token=%s",
		c.scheme, info.PushServerIP, info.PushServerSSLPort,
		info.Channel(), url.QueryEscape(code), url.QueryEscape(token))

	conn, resp, err := c.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return false, fmt.Errorf("dial push server: %w", err)
	}

	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		_ = conn.Close()
		return true, nil
	}
	c.conn = conn
	c.state = StateConnected
	c.mu.Unlock()

	c.logger.Info("Push channel connected", zap.String("server", info.PushServerIP))

	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()
		_ = conn.Close()
	}()

	pongWait := c.heartbeat + c.heartbeat/2
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	stop := make(chan struct{})
	defer close(stop)
	go c.heartbeatLoop(ctx, conn, stop)

	c.setState(StateListening)
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return true, fmt.Errorf("read push message: %w", err)
		}
		now := time.Now()
		if now.Sub(c.lastMessage) < c.dedupWindow {
			continue
		}
		c.lastMessage = now

		msg, err := decodeMessage(frame)
		if err != nil {
			c.logger.Error("Failed to decode push message", zap.Error(err))
			continue
		}
		if c.onMessage != nil {
			c.onMessage(msg)
		}
	}
}

// heartbeatLoop 按心跳间隔发送 ping，写失败时关闭连接让读循环退出
func (c *Channel) heartbeatLoop(ctx context.Context, conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(c.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			deadline := time.Now().Add(writeControlWait)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				c.logger.Warn("Push heartbeat failed", zap.Error(err))
				_ = conn.Close()
				return
			}
		}
	}
}

// decodeMessage 推送帧为 base64 包裹的 UTF-8 JSON
func decodeMessage(frame []byte) (map[string]any, error) {
	raw, err := base64.StdEncoding.DecodeString(string(frame))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 frame: %w", err)
	}
	if !utf8.Valid(raw) {
		return nil, errors.New("push payload is not valid utf-8")
	}
	var msg map[string]any
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("invalid json payload: %w", err)
	}
	return msg, nil
}

// backoffDelay 第 n 次失败的重连等待：base*2^(n-1)，上限 cap
func backoffDelay(failures int, base, cap time.Duration) time.Duration {
	if failures < 1 {
		failures = 1
	}
	if failures > 16 {
		return cap
	}
	d := base << uint(failures-1)
	if d > cap || d <= 0 {
		return cap
	}
	return d
}
