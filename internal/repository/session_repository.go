// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"fmt"
	"time"

	"linglong-go/internal/model"

	"github.com/go-redis/redis/v8"
)

// SessionRepository 定义了会话快照的存取接口。
// 快照按客户端标识存储并带 TTL 过期，不是持久数据库。
type SessionRepository interface {
	Save(ctx context.Context, clientID string, snapshot *model.SessionSnapshot) error
	Load(ctx context.Context, clientID string) (*model.SessionSnapshot, error)
	Delete(ctx context.Context, clientID string) error
}

type redisSessionRepository struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewSessionRepository 创建一个新的 SessionRepository 实例。
func NewSessionRepository(redisClient *redis.Client, ttl time.Duration) SessionRepository {
	return &redisSessionRepository{redisClient: redisClient, ttl: ttl}
}

func sessionKey(clientID string) string {
	return fmt.Sprintf("session:%s", clientID)
}

// Save 编码快照并写入 Redis。超出体积上限时 EncodeSnapshot 会先丢弃
// 报告和追问历史降级，仍超限则返回 model.ErrSnapshotTooLarge。
func (r *redisSessionRepository) Save(ctx context.Context, clientID string, snapshot *model.SessionSnapshot) error {
	data, err := model.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if err := r.redisClient.Set(ctx, sessionKey(clientID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session snapshot: %w", err)
	}
	return nil
}

// Load 读取并解码快照；不存在时返回 (nil, nil)。
func (r *redisSessionRepository) Load(ctx context.Context, clientID string) (*model.SessionSnapshot, error) {
	data, err := r.redisClient.Get(ctx, sessionKey(clientID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session snapshot: %w", err)
	}
	snapshot, err := model.DecodeSnapshot([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode session snapshot: %w", err)
	}
	return snapshot, nil
}

// Delete 清除快照，对应会话的显式重置。
func (r *redisSessionRepository) Delete(ctx context.Context, clientID string) error {
	if err := r.redisClient.Del(ctx, sessionKey(clientID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session snapshot: %w", err)
	}
	return nil
}
