package database

import (
	"context"
	"fmt"

	"linglong-go/pkg/log"

	"github.com/go-redis/redis/v8"
)

var RDB *redis.Client

// InitRedis 初始化 Redis 客户端连接。
// 会话快照存储是可选功能，连接失败返回错误由调用方决定是否降级。
func InitRedis(addr, password string, db int) error {
	RDB = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := RDB.Ping(ctx).Err(); err != nil {
		RDB = nil
		return fmt.Errorf("连接 Redis 失败: %w", err)
	}

	log.Info("Redis client connected successfully")
	return nil
}
