package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/keshan-spec/Discussion-Board-API/internal/models"
)

// Blacklist records logged out tokens until they would have expired anyway.
type Blacklist interface {
	Add(ctx context.Context, raw string, expiresAt time.Time) error
	Contains(ctx context.Context, raw string) (bool, error)
}

// DBBlacklist keeps revoked tokens in the blacklisted_tokens table.
type DBBlacklist struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDBBlacklist(db *gorm.DB) *DBBlacklist {
	return &DBBlacklist{db: db, now: time.Now}
}

func (b *DBBlacklist) Add(ctx context.Context, raw string, expiresAt time.Time) error {
	row := models.BlacklistedToken{TokenHash: HashToken(raw), ExpiresAt: expiresAt.UTC()}
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

func (b *DBBlacklist) Contains(ctx context.Context, raw string) (bool, error) {
	var n int64
	err := b.db.WithContext(ctx).Model(&models.BlacklistedToken{}).
		Where("token_hash = ?", HashToken(raw)).
		Count(&n).Error
	return n > 0, err
}

// Purge deletes rows whose token has expired and returns how many went.
func (b *DBBlacklist) Purge(ctx context.Context) (int64, error) {
	res := b.db.WithContext(ctx).Where("expires_at < ?", b.now().UTC()).Delete(&models.BlacklistedToken{})
	return res.RowsAffected, res.Error
}

// StartPurger runs Purge on the given cron schedule. Stop the returned cron on shutdown.
func StartPurger(spec string, b *DBBlacklist, log *slog.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := b.Purge(ctx)
		if err != nil {
			log.Error("purge token blacklist", "error", err)
			return
		}
		log.Debug("purged token blacklist", "removed", n)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule blacklist purge %q: %w", spec, err)
	}
	c.Start()
	log.Info("blacklist purge scheduled", "spec", spec)
	return c, nil
}

// RedisBlacklist keeps revoked tokens as keys that expire with the token.
type RedisBlacklist struct {
	client *redis.Client
	prefix string
}

// NewRedisBlacklist connects to redisURL and checks the connection.
func NewRedisBlacklist(redisURL string) (*RedisBlacklist, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisBlacklist{client: client, prefix: "blacklist:"}, nil
}

func (b *RedisBlacklist) key(raw string) string {
	return b.prefix + HashToken(raw)
}

func (b *RedisBlacklist) Add(ctx context.Context, raw string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.key(raw), "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

func (b *RedisBlacklist) Contains(ctx context.Context, raw string) (bool, error) {
	n, err := b.client.Exists(ctx, b.key(raw)).Result()
	if err != nil {
		return false, fmt.Errorf("check token blacklist: %w", err)
	}
	return n > 0, nil
}

func (b *RedisBlacklist) Close() error {
	return b.client.Close()
}
