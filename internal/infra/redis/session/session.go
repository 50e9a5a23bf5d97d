package infra_session_cache

import (
	"time"

	"github.com/go-redis/redis"
)

type Driver struct {
	client *redis.Client
	key    string
}

func New(
	client *redis.Client,
	key string,
) *Driver {
	return &Driver{
		client: client,
		key:    key,
	}
}

func (d *Driver) Set(key string, value string, ttl time.Duration) error {
	return d.client.Set(d.getFullKey(key), value, ttl).Err()
}

// Get returns an empty value for missing or expired sessions.
func (d *Driver) Get(key string) (string, error) {
	val, err := d.client.Get(d.getFullKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}

	return val, nil
}

func (d *Driver) Delete(key string) error {
	return d.client.Del(d.getFullKey(key)).Err()
}

func (d *Driver) getFullKey(key string) string {
	if d.key != "" {
		return d.key + ":" + key
	}
	return key
}
