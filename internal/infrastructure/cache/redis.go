package cache

import (
	"github.com/redis/go-redis/v9"
)

// Open returns a client for a redis:// URL, or nil when url is empty.
func Open(url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}
