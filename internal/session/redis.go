package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore keeps session state in Redis under "session:<ticket>" with a sliding TTL.
type RedisStore struct {
	rdb       redis.Cmdable
	ttl       time.Duration
	newTicket func() (string, error)
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore constructs a Redis-backed store. ttl <= 0 means DefaultTTL.
func NewRedisStore(rdb redis.Cmdable, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl, newTicket: newTicket}
}

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// Load reads the state for ticket and pushes its expiry out by the TTL.
func (s *RedisStore) Load(ctx context.Context, ticket string) (State, error) {
	if ticket == "" {
		return State{}, nil
	}
	raw, err := s.rdb.Get(ctx, keyPrefix+ticket).Result()
	if errors.Is(err, redis.Nil) {
		return State{}, nil
	}
	if err != nil {
		return State{}, err
	}
	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return State{}, nil
	}
	if err := s.rdb.Expire(ctx, keyPrefix+ticket, s.ttl).Err(); err != nil {
		return State{}, err
	}
	return st, nil
}

// Save writes st under ticket, minting a ticket when none is given.
func (s *RedisStore) Save(ctx context.Context, ticket string, st State) (string, error) {
	if ticket == "" {
		t, err := s.newTicket()
		if err != nil {
			return "", err
		}
		ticket = t
	}
	b, err := json.Marshal(st)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, keyPrefix+ticket, string(b), s.ttl).Err(); err != nil {
		return "", err
	}
	return ticket, nil
}

// Destroy removes the session.
func (s *RedisStore) Destroy(ctx context.Context, ticket string) error {
	if ticket == "" {
		return nil
	}
	return s.rdb.Del(ctx, keyPrefix+ticket).Err()
}
