package adapter

import (
	"os"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient() redis.UniversalClient {
	addr := os.Getenv("RAILBOOKING_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
	})
}
