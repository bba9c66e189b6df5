package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis keeps the occupancy set in a Redis SET.  The conditional insert
// runs as a Lua script; Redis executes scripts atomically, so the
// membership check and the SADD cannot interleave with a competing
// commit.  This is the same mechanism the rate limiter uses for its
// token bucket.
type Redis struct {
	client *redis.Client
	key    string
}

// commitScript checks every requested id against the set and returns the
// sold subset when non-empty; otherwise it adds all ids and returns an
// empty table.
var commitScript = redis.NewScript(`
    local key = KEYS[1]
    local contested = {}
    for i = 1, #ARGV do
        if redis.call('SISMEMBER', key, ARGV[i]) == 1 then
            contested[#contested + 1] = ARGV[i]
        end
    end
    if #contested > 0 then
        return contested
    end
    redis.call('SADD', key, unpack(ARGV))
    return {}
`)

// NewRedis returns a Redis-backed occupancy store.  key names the set
// holding sold seat ids, e.g. "arena:occupied".
func NewRedis(client *redis.Client, key string) *Redis {
	return &Redis{client: client, key: key}
}

// Snapshot reads the full sold set with SMEMBERS.
func (r *Redis) Snapshot(ctx context.Context) (map[string]struct{}, error) {
	ids, err := r.client.SMembers(ctx, r.key).Result()
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// Commit runs the conditional insert script.  A non-empty reply is the
// contested subset; an empty reply means every id was added.
func (r *Redis) Commit(ctx context.Context, seatIDs []string) error {
	if len(seatIDs) == 0 {
		return nil
	}
	args := make([]interface{}, len(seatIDs))
	for i, id := range seatIDs {
		args[i] = id
	}
	vals, err := commitScript.Run(ctx, r.client, []string{r.key}, args...).Result()
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	arr, ok := vals.([]interface{})
	if !ok {
		return ErrUnavailable
	}
	if len(arr) == 0 {
		return nil
	}
	contested := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			contested = append(contested, s)
		}
	}
	return &ConflictError{Contested: contested}
}
