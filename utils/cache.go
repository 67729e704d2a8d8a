package utils

import (
	"context"
	"fmt"
	"time"

	"tableorder/config"

	"github.com/go-redis/redis/v8"
)

// SessionClient backs the session, cart and order keys.
var SessionClient *redis.Client

// InitSessionClient connects to the session store DB and verifies it with a ping.
func InitSessionClient(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to Redis (sessions): %w", err)
	}
	SessionClient = client
	return nil
}

// GetSessionClient returns the session store client.
func GetSessionClient() *redis.Client {
	return SessionClient
}
