package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"pos-storefront/cart"
	"pos-storefront/model"

	"github.com/redis/go-redis/v9"
)

// clampDecrScript decrements a cart line and floors it at zero in one round
// trip.
const clampDecrScript = `
local n = redis.call('HINCRBY', KEYS[1], ARGV[1], -1)
if n < 0 then
	redis.call('HSET', KEYS[1], ARGV[1], 0)
	n = 0
end
return n
`

// SessionRepository keeps per-login state in Redis: the cart as a hash of
// product id to quantity, and display preferences. Both expire after ttl of
// inactivity.
type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

func prefsKey(sessionID string) string {
	return "session:" + sessionID
}

func (r *SessionRepository) touch(ctx context.Context, key string) error {
	if r.ttl <= 0 {
		return nil
	}
	return r.rdb.Expire(ctx, key, r.ttl).Err()
}

func (r *SessionRepository) Quantities(ctx context.Context, sessionID string) (map[int64]int, error) {
	raw, err := r.rdb.HGetAll(ctx, cartKey(sessionID)).Result()
	if err != nil {
		return nil, model.Backend("load cart", err)
	}

	stored := make(map[int64]int, len(raw))
	for field, v := range raw {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		n, _ := strconv.Atoi(v)
		stored[id] = n
	}
	return cart.FromQuantities(stored).Quantities(), nil
}

func (r *SessionRepository) Add(ctx context.Context, sessionID string, productID int64) (int, error) {
	key := cartKey(sessionID)
	n, err := r.rdb.HIncrBy(ctx, key, strconv.FormatInt(productID, 10), 1).Result()
	if err != nil {
		return 0, model.Backend("add to cart", err)
	}
	if err := r.touch(ctx, key); err != nil {
		return 0, model.Backend("add to cart", err)
	}
	return int(n), nil
}

func (r *SessionRepository) Remove(ctx context.Context, sessionID string, productID int64) (int, error) {
	key := cartKey(sessionID)
	n, err := r.rdb.Eval(ctx, clampDecrScript, []string{key}, strconv.FormatInt(productID, 10)).Int()
	if err != nil {
		return 0, model.Backend("remove from cart", err)
	}
	if err := r.touch(ctx, key); err != nil {
		return 0, model.Backend("remove from cart", err)
	}
	return n, nil
}

func (r *SessionRepository) Reset(ctx context.Context, sessionID string) error {
	if err := r.rdb.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return model.Backend("reset cart", err)
	}
	return nil
}

// Theme returns the session theme, dark unless toggled.
func (r *SessionRepository) Theme(ctx context.Context, sessionID string) (string, error) {
	theme, err := r.rdb.HGet(ctx, prefsKey(sessionID), "theme").Result()
	if errors.Is(err, redis.Nil) {
		return model.ThemeDark, nil
	}
	if err != nil {
		return "", model.Backend("load theme", err)
	}
	return theme, nil
}

func (r *SessionRepository) ToggleTheme(ctx context.Context, sessionID string) (string, error) {
	current, err := r.Theme(ctx, sessionID)
	if err != nil {
		return "", err
	}

	next := model.ThemeLight
	if current == model.ThemeLight {
		next = model.ThemeDark
	}

	key := prefsKey(sessionID)
	if err := r.rdb.HSet(ctx, key, "theme", next).Err(); err != nil {
		return "", model.Backend("save theme", err)
	}
	if err := r.touch(ctx, key); err != nil {
		return "", model.Backend("save theme", err)
	}
	return next, nil
}
