package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vetdesk/vetdesk/internal/model"
)

// redisLedgerTTL bounds entry lifetime even if ClearBefore never runs.
const redisLedgerTTL = 72 * time.Hour

// RedisLedger shares reminder dedup state across service instances.
type RedisLedger struct {
	rdb *redis.Client
}

func NewRedisLedger(rdb *redis.Client) *RedisLedger {
	return &RedisLedger{rdb: rdb}
}

func (l *RedisLedger) HasSent(ctx context.Context, key string) (bool, error) {
	n, err := l.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("reminder ledger exists: %w", err)
	}
	return n > 0, nil
}

func (l *RedisLedger) MarkSent(ctx context.Context, key string) error {
	if err := l.rdb.Set(ctx, key, "1", redisLedgerTTL).Err(); err != nil {
		return fmt.Errorf("reminder ledger set: %w", err)
	}
	return nil
}

func (l *RedisLedger) ClearBefore(ctx context.Context, cutoff model.CalendarDate) error {
	iter := l.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		date, ok := dateFromKey(key)
		if !ok || !date.Before(cutoff) {
			continue
		}
		if err := l.rdb.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("reminder ledger del: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("reminder ledger scan: %w", err)
	}
	return nil
}

var _ Ledger = (*RedisLedger)(nil)
