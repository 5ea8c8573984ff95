package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Connectlife-LLC/Connectlife-Cloud/internal/models"
)

const (
	defaultTTL = 24 * time.Hour

	statusKeyFormat = "connectlife:device:%s:status"
)

// SnapshotStore 设备状态快照的 Redis 存储，
// 推送消息到达前后都能向上层提供最近一次已知状态
type SnapshotStore struct {
	redisClient *redis.Client
	ttl         time.Duration
	logger      *zap.Logger
}

// NewSnapshotStore 创建快照存储，ttl<=0 时取默认 24h
func NewSnapshotStore(redisClient *redis.Client, ttl time.Duration, logger *zap.Logger) *SnapshotStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotStore{
		redisClient: redisClient,
		ttl:         ttl,
		logger:      logger,
	}
}

// NewRedisClient 按上层配置创建 Redis 连接
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Ping 测试 Redis 连接
func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.redisClient.Ping(ctx).Err()
}

// Save 写入一台设备的状态快照
func (s *SnapshotStore) Save(ctx context.Context, status *models.DeviceStatus) error {
	if status == nil || status.DeviceID == "" {
		return fmt.Errorf("invalid device status")
	}
	key := fmt.Sprintf(statusKeyFormat, status.DeviceID)

	jsonData, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal device status: %w", err)
	}

	if err := s.redisClient.Set(ctx, key, jsonData, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set status cache: %w", err)
	}

	s.logger.Debug("Device snapshot saved",
		zap.String("deviceId", status.DeviceID),
		zap.Int("properties", len(status.Properties)))
	return nil
}

// Load 读取一台设备的状态快照，不存在时返回 (nil, nil)
func (s *SnapshotStore) Load(ctx context.Context, deviceID string) (*models.DeviceStatus, error) {
	key := fmt.Sprintf(statusKeyFormat, deviceID)

	val, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get status cache: %w", err)
	}

	var status models.DeviceStatus
	if err := json.Unmarshal([]byte(val), &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal device status: %w", err)
	}
	return &status, nil
}

// Delete 删除一台设备的状态快照
func (s *SnapshotStore) Delete(ctx context.Context, deviceID string) error {
	key := fmt.Sprintf(statusKeyFormat, deviceID)
	if err := s.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete status cache: %w", err)
	}
	return nil
}
