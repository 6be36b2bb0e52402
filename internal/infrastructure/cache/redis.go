// Package cache implementa la caché de bindings de tenant sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

var _ tenancy.BindingCache = (*RedisBindingCache)(nil)

const keyPrefix = "tenant:binding:"

// NewRedis crea y valida una conexión go-redis.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// RedisBindingCache guarda cada binding como JSON con expiración.
type RedisBindingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisBindingCache construye la caché. ttl <= 0 guarda sin expiración.
func NewRedisBindingCache(rdb *redis.Client, ttl time.Duration) *RedisBindingCache {
	return &RedisBindingCache{rdb: rdb, ttl: ttl}
}

type cachedBinding struct {
	Email     string      `json:"email"`
	UserID    int64       `json:"user_id"`
	CompanyID int64       `json:"company_id"`
	Role      entity.Role `json:"role"`
	DSN       string      `json:"dsn,omitempty"`
}

func (c *RedisBindingCache) Get(ctx context.Context, email string) (*entity.TenantBinding, error) {
	raw, err := c.rdb.Get(ctx, keyPrefix+email).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var cb cachedBinding
	if err := json.Unmarshal(raw, &cb); err != nil {
		return nil, fmt.Errorf("decodificar binding: %w", err)
	}
	return &entity.TenantBinding{
		Email:     cb.Email,
		UserID:    cb.UserID,
		CompanyID: cb.CompanyID,
		Role:      cb.Role,
		Store:     entity.StoreLocation{CompanyID: cb.CompanyID, DSN: cb.DSN},
	}, nil
}

func (c *RedisBindingCache) Set(ctx context.Context, b entity.TenantBinding) error {
	raw, err := json.Marshal(cachedBinding{
		Email:     b.Email,
		UserID:    b.UserID,
		CompanyID: b.CompanyID,
		Role:      b.Role,
		DSN:       b.Store.DSN,
	})
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, keyPrefix+b.Email, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisBindingCache) Invalidate(ctx context.Context, email string) error {
	if err := c.rdb.Del(ctx, keyPrefix+email).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
