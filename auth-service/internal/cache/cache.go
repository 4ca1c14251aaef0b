package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RefreshEntry описывает данные, которые мы храним в Redis по jti
// refresh-токена. Срок жизни записи кодируется TTL самого ключа:
// ключ умирает вместе с токеном, отдельное поле с exp не хранится.
type RefreshEntry struct {
	UserID  uuid.UUID
	Revoked bool
}

// RefreshCache — минимальный контракт кэша refresh-токенов.
type RefreshCache interface {
	// Get возвращает запись и признак её наличия в кэше. Истёкший
	// ключ Redis удаляет сам, поэтому найденная запись всегда живая.
	Get(ctx context.Context, jti string) (*RefreshEntry, bool, error)
	// Set сохраняет запись с TTL (обычно ExpiresAt-now).
	Set(ctx context.Context, jti string, e *RefreshEntry, ttl time.Duration) error
	// MarkRevoked помечает ключ revoked=true, сохраняя остаточный TTL.
	MarkRevoked(ctx context.Context, jti string) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "auth:rt:".
func NewRedisCache(redisURL, prefix string) (RefreshCache, error) {
	if prefix == "" {
		prefix = "auth:rt:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key(jti string) string { return c.prefix + jti }

// Храним как Redis Hash с полями: uid, rev (0/1).
func (c *redisCache) Get(ctx context.Context, jti string) (*RefreshEntry, bool, error) {
	m, err := c.rdb.HGetAll(ctx, c.key(jti)).Result()
	if err != nil {
		return nil, false, err
	}

	if len(m) == 0 {
		return nil, false, nil
	}

	uid, err := uuid.Parse(m["uid"])
	if err != nil {
		return nil, false, err
	}

	return &RefreshEntry{
		UserID:  uid,
		Revoked: m["rev"] == "1",
	}, true, nil
}

func (c *redisCache) Set(ctx context.Context, jti string, e *RefreshEntry, ttl time.Duration) error {
	if ttl <= 0 {
		// Токен уже истёк, кэшировать нечего.
		return nil
	}

	kv := map[string]string{
		"uid": e.UserID.String(),
		"rev": boolTo01(e.Revoked),
	}

	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, c.key(jti), kv)
	pipe.Expire(ctx, c.key(jti), ttl)

	_, err := pipe.Exec(ctx)
	return err
}

// MarkRevoked обновляет только поле rev: TTL хэша при HSet не сбрасывается,
// так что отметка живёт ровно до истечения токена.
func (c *redisCache) MarkRevoked(ctx context.Context, jti string) error {
	return c.rdb.HSet(ctx, c.key(jti), "rev", "1").Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }

func boolTo01(b bool) string {
	if b {
		return "1"
	}

	return "0"
}
