package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bot-sentinela/security/abuseguard/domain"

	"github.com/redis/go-redis/v9"
)

type RedisStatsStore struct {
	rdb *redis.Client

	prefix string
	// ttl aplica apenas em chaves de série temporal / por ator.
	// total é cumulativo e não expira.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackActors bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackActors(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackActors = track }
}

func NewRedisStatsStore(rdb *redis.Client, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "sentinel:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record é best-effort: o guard ignora o erro para nunca atrasar ou
// derrubar uma decisão de segurança por causa de telemetria.
func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	field := "denied"
	if ev.Allowed {
		field = "allowed"
	}

	totalKey := s.prefix + ":total"

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, totalKey, field, 1)

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	if tier := strings.TrimSpace(ev.Tier); tier != "" {
		pipe.HIncrBy(ctx, s.prefix+":tier", tier+":"+field, 1)
	}

	if pattern := strings.TrimSpace(ev.Pattern); pattern != "" {
		pipe.HIncrBy(ctx, s.prefix+":pattern", pattern, 1)
	}

	if s.trackActors {
		k := strings.TrimSpace(string(ev.Actor))
		if k != "" {
			actorKey := s.prefix + ":actor:" + k
			pipe.HIncrBy(ctx, actorKey, field, 1)
			if s.ttl > 0 {
				pipe.Expire(ctx, actorKey, s.ttl)
			}
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}
