package push

import (
	"context"
	"encoding/base64"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Connectlife-LLC/Connectlife-Cloud/internal/models"
)

type fakeBackend struct {
	mu          sync.Mutex
	registered  []string
	registerErr error
	info        *models.NotificationInfo
	infoErr     error
}

func (f *fakeBackend) RegisterPushCode(ctx context.Context, phoneCode, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, phoneCode)
	return nil
}

func (f *fakeBackend) GetNotificationInfo(ctx context.Context, phoneCode, token string) (*models.NotificationInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

func staticToken(token string) TokenFunc {
	return func(ctx context.Context) (string, error) {
		return token, nil
	}
}

func notificationInfoFor(t *testing.T, serverURL string) *models.NotificationInfo {
	t.Helper()
	u, err := url.Parse(serverURL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return &models.NotificationInfo{
		PushServerIP:      host,
		PushServerSSLPort: port,
		PushChannels:      []models.PushChannelInfo{{PushChannel: "ch-1"}},
	}
}

// pushServer 接受 websocket 升级并把给定负载按序下发
func pushServer(t *testing.T, onConn func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		onConn(conn)
	}))
}

func encodeFrame(payload string) []byte {
	return []byte(base64.StdEncoding.EncodeToString([]byte(payload)))
}

func TestBackoffDelay(t *testing.T) {
	base := 5 * time.Second
	cap := 30 * time.Second

	assert.Equal(t, 5*time.Second, backoffDelay(1, base, cap))
	assert.Equal(t, 10*time.Second, backoffDelay(2, base, cap))
	assert.Equal(t, 20*time.Second, backoffDelay(3, base, cap))
	// 封顶
	assert.Equal(t, 30*time.Second, backoffDelay(4, base, cap))
	assert.Equal(t, 30*time.Second, backoffDelay(10, base, cap))
	assert.Equal(t, 30*time.Second, backoffDelay(100, base, cap))
}

func TestDecodeMessage(t *testing.T) {
	msg, err := decodeMessage(encodeFrame(`{"deviceId":"dev-1","statusList":{"t_power":"1"}}`))
	require.NoError(t, err)
	assert.Equal(t, "dev-1", msg["deviceId"])

	_, err = decodeMessage([]byte("not-base64!!!"))
	assert.Error(t, err)

	_, err = decodeMessage(encodeFrame("not json"))
	assert.Error(t, err)
}

func TestChannel_HandshakeFailure(t *testing.T) {
	backend := &fakeBackend{registerErr: errors.New("cloud rejected code")}
	ch := NewChannel(backend, staticToken("tok"), nil, zap.NewNop(), Options{})

	err := ch.Connect(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHandshakeFailed))
	assert.Equal(t, StateClosed, ch.State())
}

func TestChannel_HandshakeMissingChannel(t *testing.T) {
	backend := &fakeBackend{info: &models.NotificationInfo{PushServerIP: "10.0.0.1"}}
	ch := NewChannel(backend, staticToken("tok"), nil, zap.NewNop(), Options{})

	err := ch.Connect(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHandshakeFailed))
}

func TestChannel_DeliversMessages(t *testing.T) {
	received := make(chan map[string]any, 8)
	server := pushServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, encodeFrame(`{"deviceId":"dev-1"}`))
		time.Sleep(150 * time.Millisecond)
		_ = conn.WriteMessage(websocket.TextMessage, encodeFrame(`{"deviceId":"dev-2"}`))
		time.Sleep(time.Second)
	})
	defer server.Close()

	backend := &fakeBackend{info: notificationInfoFor(t, server.URL)}
	ch := NewChannel(backend, staticToken("tok"), func(msg map[string]any) {
		received <- msg
	}, zap.NewNop(), Options{
		Insecure:    true,
		DedupWindow: 50 * time.Millisecond,
		Heartbeat:   time.Minute,
	})

	require.NoError(t, ch.Connect(context.Background()))
	defer ch.Disconnect()

	var got []map[string]any
	for len(got) < 2 {
		select {
		case msg := <-received:
			got = append(got, msg)
		case <-time.After(3 * time.Second):
			t.Fatalf("expected 2 messages, got %d", len(got))
		}
	}
	assert.Equal(t, "dev-1", got[0]["deviceId"])
	assert.Equal(t, "dev-2", got[1]["deviceId"])
}

// 去重窗口内到达的第二条消息被丢弃，窗口外的照常投递
func TestChannel_Deduplication(t *testing.T) {
	received := make(chan map[string]any, 8)
	server := pushServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, encodeFrame(`{"seq":"1"}`))
		time.Sleep(100 * time.Millisecond)
		// 窗口内，应被丢弃
		_ = conn.WriteMessage(websocket.TextMessage, encodeFrame(`{"seq":"2"}`))
		time.Sleep(600 * time.Millisecond)
		// 窗口外，应投递
		_ = conn.WriteMessage(websocket.TextMessage, encodeFrame(`{"seq":"3"}`))
		time.Sleep(time.Second)
	})
	defer server.Close()

	backend := &fakeBackend{info: notificationInfoFor(t, server.URL)}
	ch := NewChannel(backend, staticToken("tok"), func(msg map[string]any) {
		received <- msg
	}, zap.NewNop(), Options{
		Insecure:    true,
		DedupWindow: 500 * time.Millisecond,
		Heartbeat:   time.Minute,
	})

	require.NoError(t, ch.Connect(context.Background()))
	defer ch.Disconnect()

	var got []map[string]any
	deadline := time.After(3 * time.Second)
	for len(got) < 2 {
		select {
		case msg := <-received:
			got = append(got, msg)
		case <-deadline:
			t.Fatalf("expected 2 messages, got %d", len(got))
		}
	}
	assert.Equal(t, "1", got[0]["seq"])
	assert.Equal(t, "3", got[1]["seq"])

	select {
	case msg := <-received:
		t.Fatalf("unexpected extra message: %v", msg)
	case <-time.After(200 * time.Millisecond):
	}
}

// 坏帧只丢弃自己，连接继续收后续消息
func TestChannel_BadFrameContained(t *testing.T) {
	received := make(chan map[string]any, 8)
	server := pushServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte("!!!not base64!!!"))
		time.Sleep(100 * time.Millisecond)
		_ = conn.WriteMessage(websocket.TextMessage, encodeFrame(`{"deviceId":"dev-1"}`))
		time.Sleep(time.Second)
	})
	defer server.Close()

	backend := &fakeBackend{info: notificationInfoFor(t, server.URL)}
	ch := NewChannel(backend, staticToken("tok"), func(msg map[string]any) {
		received <- msg
	}, zap.NewNop(), Options{
		Insecure:    true,
		DedupWindow: time.Millisecond,
		Heartbeat:   time.Minute,
	})

	require.NoError(t, ch.Connect(context.Background()))
	defer ch.Disconnect()

	select {
	case msg := <-received:
		assert.Equal(t, "dev-1", msg["deviceId"])
	case <-time.After(3 * time.Second):
		t.Fatal("expected the valid frame to be delivered")
	}
}

// 连续拨号失败超过上限后进入终态，不再重试
func TestChannel_RetriesExhausted(t *testing.T) {
	backend := &fakeBackend{
		info: &models.NotificationInfo{
			// 不可达地址，拨号必败
			PushServerIP:      "127.0.0.1",
			PushServerSSLPort: 1,
			PushChannels:      []models.PushChannelInfo{{PushChannel: "ch-1"}},
		},
	}
	ch := NewChannel(backend, staticToken("tok"), nil, zap.NewNop(), Options{
		Insecure:    true,
		MaxFails:    3,
		BackoffBase: 5 * time.Millisecond,
		BackoffCap:  10 * time.Millisecond,
	})

	require.NoError(t, ch.Connect(context.Background()))

	select {
	case <-ch.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("channel did not reach terminal state")
	}
	assert.Equal(t, StateClosed, ch.State())
	assert.True(t, errors.Is(ch.Err(), ErrRetriesExhausted))

	// 握手成功 + 3 次重连前的重注册
	backend.mu.Lock()
	registrations := len(backend.registered)
	backend.mu.Unlock()
	assert.GreaterOrEqual(t, registrations, 1)
}

func TestChannel_DisconnectStopsReconnect(t *testing.T) {
	connCount := 0
	var mu sync.Mutex
	server := pushServer(t, func(conn *websocket.Conn) {
		mu.Lock()
		connCount++
		mu.Unlock()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	backend := &fakeBackend{info: notificationInfoFor(t, server.URL)}
	ch := NewChannel(backend, staticToken("tok"), nil, zap.NewNop(), Options{
		Insecure:  true,
		Heartbeat: time.Minute,
	})

	require.NoError(t, ch.Connect(context.Background()))

	// 等连接建立
	require.Eventually(t, func() bool {
		return ch.State() == StateListening
	}, 3*time.Second, 10*time.Millisecond)

	ch.Disconnect()

	assert.Equal(t, StateClosed, ch.State())
	assert.NoError(t, ch.Err())

	// 主动断开不触发重连
	time.Sleep(200 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, connCount)
}

func TestChannel_ConnectTwice(t *testing.T) {
	server := pushServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	backend := &fakeBackend{info: notificationInfoFor(t, server.URL)}
	ch := NewChannel(backend, staticToken("tok"), nil, zap.NewNop(), Options{
		Insecure:  true,
		Heartbeat: time.Minute,
	})

	require.NoError(t, ch.Connect(context.Background()))
	defer ch.Disconnect()

	err := ch.Connect(context.Background())
	assert.True(t, errors.Is(err, ErrAlreadyConnected))
}
