package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xvolv/tenant/internal/domain/calendar"
	"github.com/xvolv/tenant/internal/domain/notification"
)

const redisKeyPrefix = "tenant:notified:"

// RedisLedger stores notified keys in redis via SETNX, so multiple app
// instances share one dedup view. Keys carry a TTL that covers the rest of
// the billing period; redis handles the rollover cleanup.
type RedisLedger struct {
	client *redis.Client
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

func (l *RedisLedger) MarkIfFirst(ctx context.Context, key notification.Key) (bool, error) {
	ok, err := l.client.SetNX(ctx, redisKeyPrefix+key.String(), "1", periodTTL(key)).Result()
	if err != nil {
		return false, fmt.Errorf("marking notified key %s: %w", key.String(), err)
	}
	return ok, nil
}

func (l *RedisLedger) Release(ctx context.Context, key notification.Key) error {
	if err := l.client.Del(ctx, redisKeyPrefix+key.String()).Err(); err != nil {
		return fmt.Errorf("releasing notified key %s: %w", key.String(), err)
	}
	return nil
}

// periodTTL covers the remaining days of the key's billing period, plus one
// day of slack for clock skew between instances.
func periodTTL(key notification.Key) time.Duration {
	endOfPeriod := calendar.EthiopianDate{
		Year:  key.Year,
		Month: key.Month,
		Day:   calendar.DaysInMonth(key.Year, key.Month),
	}
	today := calendar.FromTime(time.Now())
	days := endOfPeriod.Ordinal() - today.Ordinal() + 1
	if days < 1 {
		days = 1
	}
	return time.Duration(days) * 24 * time.Hour
}
