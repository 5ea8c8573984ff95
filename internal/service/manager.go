package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Connectlife-LLC/Connectlife-Cloud/internal/cache"
	"github.com/Connectlife-LLC/Connectlife-Cloud/internal/devices"
	"github.com/Connectlife-LLC/Connectlife-Cloud/internal/models"
	"github.com/Connectlife-LLC/Connectlife-Cloud/internal/push"
)

// API 管理器依赖的云端接口（由 client.Client 实现）
type API interface {
	GetDeviceStatusList(ctx context.Context, token string) ([]models.DeviceInfo, error)
	ControlDevice(ctx context.Context, puid string, properties map[string]any, token string) (map[string]string, error)
	GetPropertyList(ctx context.Context, typeCode, featureCode, token string) ([]models.PropertyRecord, error)
	QueryStaticData(ctx context.Context, puid, token string) (map[string]string, error)
	GetHourPower(ctx context.Context, date, puid, token string) (map[string]any, error)
	GetSelfCheck(ctx context.Context, noRecord, puid, token string) (map[string]any, error)
	RegisterPushCode(ctx context.Context, phoneCode, token string) error
	GetNotificationInfo(ctx context.Context, phoneCode, token string) (*models.NotificationInfo, error)
}

// TokenFunc 提供当前有效的访问令牌，刷新逻辑在调用方
type TokenFunc func(ctx context.Context) (string, error)

// DeltaFunc 一台设备产生增量状态时回调
type DeltaFunc func(deviceID string, properties map[string]any)

// Device 一台已发现设备：基本信息、归属类别和过滤后的属性视图
type Device struct {
	Info            models.DeviceInfo
	Class           devices.Class
	View            devices.View
	PowerMonitoring bool
	StaticData      map[string]string
}

// Manager 设备协议层的入口：发现设备、解码状态、下发控制、
// 维护推送通道并把增量状态合并进快照
type Manager struct {
	api       API
	getToken  TokenFunc
	snapshots *cache.SnapshotStore
	logger    *zap.Logger
	pushOpts  push.Options

	mu      sync.RWMutex
	devices map[string]*Device
	status  map[string]*models.DeviceStatus
	channel *push.Channel
	onDelta DeltaFunc
}

// NewManager 创建管理器，snapshots 可为 nil（仅内存镜像）
func NewManager(api API, getToken TokenFunc, snapshots *cache.SnapshotStore, logger *zap.Logger, pushOpts push.Options) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		api:       api,
		getToken:  getToken,
		snapshots: snapshots,
		logger:    logger,
		pushOpts:  pushOpts,
		devices:   make(map[string]*Device),
		status:    make(map[string]*models.DeviceStatus),
	}
}

// DiscoverDevices 拉取设备列表，为每台受支持设备构建过滤后的属性视图，
// 并用列表自带的状态播种快照。不支持的设备类型跳过不报错。
func (m *Manager) DiscoverDevices(ctx context.Context) (map[string]*Device, error) {
	token, err := m.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get access token: %w", err)
	}

	list, err := m.api.GetDeviceStatusList(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch device list: %w", err)
	}
	m.logger.Info("Fetched device list", zap.Int("count", len(list)))

	discovered := make(map[string]*Device, len(list))
	for _, info := range list {
		dev, err := m.buildDevice(ctx, info, token)
		if err != nil {
			m.logger.Debug("Skipping device",
				zap.String("deviceId", info.DeviceID),
				zap.String("typeCode", info.TypeCode),
				zap.Error(err))
			continue
		}
		discovered[info.DeviceID] = dev
	}

	m.mu.Lock()
	for id, dev := range discovered {
		m.devices[id] = dev
	}
	m.mu.Unlock()

	for id, dev := range discovered {
		m.seedSnapshot(ctx, id, dev)
	}

	m.logger.Info("Device discovery complete", zap.Int("devices", len(discovered)))
	return discovered, nil
}

// buildDevice 为一台设备完成类别判定、能力过滤和电量属性裁剪
func (m *Manager) buildDevice(ctx context.Context, info models.DeviceInfo, token string) (*Device, error) {
	class, err := devices.ClassFor(info.TypeCode, info.FeatureCode)
	if err != nil {
		return nil, err
	}
	schema, err := devices.SchemaFor(info.TypeCode, info.FeatureCode)
	if err != nil {
		return nil, err
	}

	var props []models.PropertyRecord
	if class != devices.ClassBeanStatic {
		props, err = m.api.GetPropertyList(ctx, info.TypeCode, info.FeatureCode, token)
		if err != nil {
			// 能力表拉取失败按空能力处理，设备降级保留
			m.logger.Warn("Failed to fetch property list",
				zap.String("deviceId", info.DeviceID), zap.Error(err))
			props = nil
		}
	}

	var static map[string]string
	if devices.IsStaticFeature(info.FeatureCode) {
		static, err = m.api.QueryStaticData(ctx, info.PUID, token)
		if err != nil {
			m.logger.Warn("Failed to fetch static data",
				zap.String("deviceId", info.DeviceID), zap.Error(err))
			static = nil
		}
	}

	var view devices.View
	switch class {
	case devices.ClassBean:
		view = devices.FilterBean(schema, props)
	case devices.ClassBeanStatic:
		view = devices.StaticView(schema)
	case devices.ClassHumidity:
		view = devices.FilterHumidity(schema, props)
	case devices.ClassWaterHeater:
		view = devices.WaterHeaterView(schema, info.StatusList)
	default:
		return nil, &devices.UnsupportedDeviceError{TypeCode: info.TypeCode, FeatureCode: info.FeatureCode}
	}

	power := devices.SupportsPowerMonitoring(info.TypeCode, info.FeatureCode, props, static)
	if !power {
		view.Remove(devices.KeyPowerConsumption)
	}

	return &Device{
		Info:            info,
		Class:           class,
		View:            view,
		PowerMonitoring: power,
		StaticData:      static,
	}, nil
}

// seedSnapshot 用设备列表携带的初始状态建立快照
func (m *Manager) seedSnapshot(ctx context.Context, deviceID string, dev *Device) {
	decoded := devices.Decode(dev.View, dev.Info.StatusList)
	status := &models.DeviceStatus{
		DeviceID:   deviceID,
		Properties: decoded,
		Online:     len(dev.Info.FailedData) == 0,
		LastUpdate: time.Now().UTC(),
	}

	m.mu.Lock()
	m.status[deviceID] = status
	m.mu.Unlock()

	if m.snapshots != nil {
		if err := m.snapshots.Save(ctx, status); err != nil {
			m.logger.Warn("Failed to persist device snapshot",
				zap.String("deviceId", deviceID), zap.Error(err))
		}
	}
}

// Device 按设备 ID 查询已发现设备
func (m *Manager) Device(deviceID string) (*Device, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	dev, ok := m.devices[deviceID]
	return dev, ok
}

// Status 返回一台设备的当前快照，未知设备返回 nil
func (m *Manager) Status(deviceID string) *models.DeviceStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status[deviceID]
}

// DecodeStatus 用设备的过滤视图解码一份原始状态并合并进快照
func (m *Manager) DecodeStatus(ctx context.Context, deviceID string, raw map[string]string) (*models.DeviceStatus, error) {
	m.mu.RLock()
	dev, ok := m.devices[deviceID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown device: %s", deviceID)
	}

	decoded := devices.Decode(dev.View, raw)

	m.mu.Lock()
	status, ok := m.status[deviceID]
	if !ok {
		status = &models.DeviceStatus{DeviceID: deviceID, Online: true}
		m.status[deviceID] = status
	}
	status.Update(decoded)
	snapshot := *status
	m.mu.Unlock()

	if m.snapshots != nil {
		if err := m.snapshots.Save(ctx, &snapshot); err != nil {
			m.logger.Warn("Failed to persist device snapshot",
				zap.String("deviceId", deviceID), zap.Error(err))
		}
	}
	return &snapshot, nil
}

// ControlDevice 向一台设备下发属性写请求
func (m *Manager) ControlDevice(ctx context.Context, deviceID string, properties map[string]any) (map[string]string, error) {
	m.mu.RLock()
	dev, ok := m.devices[deviceID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown device: %s", deviceID)
	}

	token, err := m.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get access token: %w", err)
	}

	m.logger.Info("Sending device control",
		zap.String("deviceId", deviceID),
		zap.Int("properties", len(properties)))

	result, err := m.api.ControlDevice(ctx, dev.Info.PUID, properties, token)
	if err != nil {
		return nil, fmt.Errorf("control device %s: %w", deviceID, err)
	}
	return result, nil
}

// HourlyPower 查询一台设备某日的分时用电量
func (m *Manager) HourlyPower(ctx context.Context, deviceID, date string) (map[string]any, error) {
	m.mu.RLock()
	dev, ok := m.devices[deviceID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown device: %s", deviceID)
	}
	if !dev.PowerMonitoring {
		return nil, fmt.Errorf("device %s does not support power monitoring", deviceID)
	}

	token, err := m.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get access token: %w", err)
	}
	return m.api.GetHourPower(ctx, date, dev.Info.PUID, token)
}

// SelfCheck 触发一台设备的自检并返回结果
func (m *Manager) SelfCheck(ctx context.Context, deviceID string) (map[string]any, error) {
	m.mu.RLock()
	dev, ok := m.devices[deviceID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown device: %s", deviceID)
	}

	token, err := m.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get access token: %w", err)
	}
	return m.api.GetSelfCheck(ctx, "1", dev.Info.PUID, token)
}

// ConnectPush 建立推送通道，增量状态经 onDelta 通知调用方
func (m *Manager) ConnectPush(ctx context.Context, onDelta DeltaFunc) error {
	m.mu.Lock()
	if m.channel != nil && m.channel.State() != push.StateClosed && m.channel.State() != push.StateIdle {
		m.mu.Unlock()
		return push.ErrAlreadyConnected
	}
	m.onDelta = onDelta
	ch := push.NewChannel(m.api, push.TokenFunc(m.getToken), m.handlePushMessage, m.logger, m.pushOpts)
	m.channel = ch
	m.mu.Unlock()

	return ch.Connect(ctx)
}

// DisconnectPush 关闭推送通道并等待其完全退出
func (m *Manager) DisconnectPush() {
	m.mu.Lock()
	ch := m.channel
	m.channel = nil
	m.mu.Unlock()
	if ch != nil {
		ch.Disconnect()
	}
}

// PushState 返回推送通道当前状态，未建立时为 StateIdle
func (m *Manager) PushState() push.State {
	m.mu.RLock()
	ch := m.channel
	m.mu.RUnlock()
	if ch == nil {
		return push.StateIdle
	}
	return ch.State()
}

// handlePushMessage 把一条解码后的推送消息落到对应设备：
// 提取设备 ID 和属性集，经过滤视图解码后合并进快照并通知回调
func (m *Manager) handlePushMessage(msg map[string]any) {
	deviceID := stringField(msg, "deviceId")
	if deviceID == "" {
		deviceID = stringField(msg, "puid")
	}
	if deviceID == "" {
		m.logger.Debug("Push message without device id", zap.Int("fields", len(msg)))
		return
	}

	raw := propertyFields(msg)
	if len(raw) == 0 {
		m.logger.Debug("Push message without properties", zap.String("deviceId", deviceID))
		return
	}

	status, err := m.DecodeStatus(context.Background(), deviceID, raw)
	if err != nil {
		m.logger.Debug("Push message for unknown device", zap.String("deviceId", deviceID))
		return
	}

	m.mu.RLock()
	onDelta := m.onDelta
	m.mu.RUnlock()
	if onDelta != nil {
		onDelta(deviceID, status.Properties)
	}
}

// stringField 取消息中的字符串字段，缺失或类型不符返回空串
func stringField(msg map[string]any, key string) string {
	if v, ok := msg[key].(string); ok {
		return v
	}
	return ""
}

// propertyFields 提取消息中的属性集，兼容 statusList/properties 两种包裹
func propertyFields(msg map[string]any) map[string]string {
	var src map[string]any
	if v, ok := msg["statusList"].(map[string]any); ok {
		src = v
	} else if v, ok := msg["properties"].(map[string]any); ok {
		src = v
	}
	if src == nil {
		return nil
	}
	raw := make(map[string]string, len(src))
	for k, v := range src {
		raw[k] = fmt.Sprintf("%v", v)
	}
	return raw
}
