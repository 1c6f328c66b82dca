package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is the Redis surface repositories depend on
type Client interface {
	redis.UniversalClient
}

// Pipeliner wraps redis.Pipeliner for batch operations
type Pipeliner interface {
	redis.Pipeliner
}

// Nil is returned by reads of a missing key
const Nil = redis.Nil
