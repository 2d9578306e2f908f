package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zerostour/internal/config"
	"zerostour/internal/session"

	"github.com/cenkalti/backoff/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "zerostour:session:"

// MustConnect dials Redis and pings it, retrying with exponential backoff
// until maxWait has passed.
func MustConnect(ctx context.Context, cfg config.RedisCfg, maxWait time.Duration) *goredis.Client {
	client := goredis.NewClient(&goredis.Options{Addr: cfg.Addr, DB: cfg.DB})

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxWait
	err := backoff.RetryNotify(func() error {
		return client.Ping(ctx).Err()
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		log.Warn().Err(err).Dur("retry_in", next).Str("addr", cfg.Addr).Msg("redis not ready")
	})
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Addr).Msg("redis connect fail")
	}
	return client
}

// SessionStore keeps dashboard sessions in Redis with a sliding TTL.
type SessionStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *goredis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func (s *SessionStore) Load(ctx context.Context, id string) (*session.State, error) {
	if !session.ValidID(id) {
		return nil, session.ErrInvalidID
	}
	b, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return &session.State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	st, err := session.Decode(b)
	if err != nil {
		// A corrupt entry is replaced on the next save.
		log.Warn().Err(err).Str("session", id).Msg("discarding unreadable session")
		return &session.State{}, nil
	}
	return st, nil
}

func (s *SessionStore) Save(ctx context.Context, id string, st *session.State) error {
	if !session.ValidID(id) {
		return session.ErrInvalidID
	}
	b, err := session.Encode(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+id, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
