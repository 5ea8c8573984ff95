package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Connectlife-LLC/Connectlife-Cloud/internal/cache"
	"github.com/Connectlife-LLC/Connectlife-Cloud/internal/client"
	"github.com/Connectlife-LLC/Connectlife-Cloud/internal/config"
	"github.com/Connectlife-LLC/Connectlife-Cloud/internal/logger"
	"github.com/Connectlife-LLC/Connectlife-Cloud/internal/push"
	"github.com/Connectlife-LLC/Connectlife-Cloud/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "connectlife-cloud")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting connectlife-cloud",
		zap.String("api_url", cfg.Cloud.BaseURL))

	apiClient := client.New(cfg.Cloud.BaseURL, cfg.Cloud.OAuthURL,
		cfg.Cloud.ClientID, cfg.Cloud.ClientSecret, zapLogger)

	// 令牌由外部下发，进程内只透传
	token := os.Getenv("CONNECTLIFE_ACCESS_TOKEN")
	if token == "" {
		zapLogger.Fatal("CONNECTLIFE_ACCESS_TOKEN is required")
	}
	getToken := func(ctx context.Context) (string, error) {
		return token, nil
	}

	var snapshots *cache.SnapshotStore
	if cfg.Redis.Enabled {
		redisClient := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer redisClient.Close()
		snapshots = cache.NewSnapshotStore(redisClient, cfg.Redis.TTL, zapLogger)
		if err := snapshots.Ping(context.Background()); err != nil {
			zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		zapLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	pushOpts := push.Options{
		Heartbeat:   cfg.Push.Heartbeat,
		MaxFails:    cfg.Push.MaxFails,
		DedupWindow: cfg.Push.DedupWindow,
		BackoffBase: cfg.Push.BackoffBase,
		BackoffCap:  cfg.Push.BackoffCap,
	}
	manager := service.NewManager(apiClient, getToken, snapshots, zapLogger, pushOpts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	discovered, err := manager.DiscoverDevices(ctx)
	if err != nil {
		zapLogger.Fatal("Device discovery failed", zap.Error(err))
	}
	for id, dev := range discovered {
		zapLogger.Info("Discovered device",
			zap.String("deviceId", id),
			zap.String("name", dev.Info.Name),
			zap.String("typeCode", dev.Info.TypeCode),
			zap.Int("attributes", len(dev.View)),
			zap.Bool("powerMonitoring", dev.PowerMonitoring))
	}

	onDelta := func(deviceID string, properties map[string]any) {
		zapLogger.Info("Device status update",
			zap.String("deviceId", deviceID),
			zap.Int("properties", len(properties)))
	}
	if err := manager.ConnectPush(ctx, onDelta); err != nil {
		zapLogger.Error("Failed to connect push channel", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	zapLogger.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	manager.DisconnectPush()
	cancel()

	zapLogger.Info("Service stopped")
}
