package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"games_catalog/internal/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "games:session:"
	redisTimeout   = 3 * time.Second
)

// RedisStore keeps State in Redis under a random id; the cookie only carries
// the id. Entries expire after the configured TTL.
type RedisStore struct {
	client *redis.Client
	name   string
	ttl    time.Duration
	secure bool
}

func NewRedisStore(client *redis.Client, cfg config.Session) *RedisStore {
	return &RedisStore{
		client: client,
		name:   cfg.CookieName,
		ttl:    cfg.TTL,
		secure: cfg.Secure,
	}
}

// NewRedisClient connects and pings the configured Redis server.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

func (s *RedisStore) Load(r *http.Request) (State, error) {
	c, err := r.Cookie(s.name)
	if errors.Is(err, http.ErrNoCookie) {
		return State{}, nil
	}
	if err != nil {
		return State{}, err
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return State{}, ErrInvalidSession
	}

	ctx, cancel := context.WithTimeout(r.Context(), redisTimeout)
	defer cancel()

	raw, err := s.client.Get(ctx, redisKeyPrefix+c.Value).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, nil
	}
	if err != nil {
		return State{}, err
	}

	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}, ErrInvalidSession
	}

	return st, nil
}

func (s *RedisStore) Save(w http.ResponseWriter, r *http.Request, st State, renew bool) error {
	ctx, cancel := context.WithTimeout(r.Context(), redisTimeout)
	defer cancel()

	id := ""
	if c, err := r.Cookie(s.name); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			id = c.Value
		}
	}

	if id != "" && (renew || st.empty()) {
		if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
			return err
		}
		if st.empty() {
			http.SetCookie(w, expiredCookie(s.name, s.secure))
			return nil
		}
		id = ""
	}
	if st.empty() {
		return nil
	}
	if id == "" {
		id = uuid.NewString()
	}

	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKeyPrefix+id, raw, s.ttl).Err(); err != nil {
		return err
	}

	http.SetCookie(w, sessionCookie(s.name, id, time.Now().Add(s.ttl), s.secure))
	return nil
}
