package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/redis/go-redis/v9"

	"ncaablines/internal/model"
)

// Redis stores each gameline as a JSON string under its own key and tracks
// every key in one set.
type Redis struct {
	client *redis.Client
	prefix string
	locks  keyLock
}

const defaultRedisPrefix = "ncaab"

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, prefix: defaultRedisPrefix}
}

// NewRedisFromURL parses a redis:// URL and checks the server answers.
func NewRedisFromURL(ctx context.Context, rawURL string) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return NewRedis(client), nil
}

// WithPrefix namespaces every key, mostly so tests can share a server.
func (r *Redis) WithPrefix(prefix string) *Redis {
	r.prefix = prefix
	return r
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// lineKey escapes each identity part so a ":" inside a team name cannot
// collide with another matchup.
func (r *Redis) lineKey(k model.Key) string {
	return fmt.Sprintf("%s:gameline:%s:%s:%s:%s", r.prefix,
		url.QueryEscape(string(k.Source)), url.QueryEscape(k.Home), url.QueryEscape(k.Away), url.QueryEscape(k.GameDay))
}

func (r *Redis) indexKey() string {
	return r.prefix + ":gamelines"
}

func (r *Redis) Upsert(ctx context.Context, g model.Gameline) error {
	if err := g.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshaling gameline: %w", err)
	}

	unlock := r.locks.lock(g.Key())
	defer unlock()

	key := r.lineKey(g.Key())
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, r.indexKey(), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("upserting gameline %s: %w", g.Key(), err)
	}
	return nil
}

func (r *Redis) All(ctx context.Context) ([]model.Gameline, error) {
	keys, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("listing gameline keys: %w", err)
	}
	lines := []model.Gameline{}
	if len(keys) == 0 {
		return lines, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("reading gamelines: %w", err)
	}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var g model.Gameline
		if err := json.Unmarshal([]byte(s), &g); err != nil {
			return nil, fmt.Errorf("unmarshaling gameline %s: %w", keys[i], err)
		}
		lines = append(lines, g)
	}
	sortLines(lines)
	return lines, nil
}

func (r *Redis) Get(ctx context.Context, key model.Key) (model.Gameline, error) {
	data, err := r.client.Get(ctx, r.lineKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return model.Gameline{}, notFound(key)
	}
	if err != nil {
		return model.Gameline{}, fmt.Errorf("reading gameline %s: %w", key, err)
	}

	var g model.Gameline
	if err := json.Unmarshal([]byte(data), &g); err != nil {
		return model.Gameline{}, fmt.Errorf("unmarshaling gameline %s: %w", key, err)
	}
	return g, nil
}

func (r *Redis) Count(ctx context.Context) (int, error) {
	n, err := r.client.SCard(ctx, r.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("counting gamelines: %w", err)
	}
	return int(n), nil
}
