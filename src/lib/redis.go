package lib

import (
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	opt, err := redis.ParseURL(os.Getenv("REDIS_HOST"))
	if err != nil {
		log.Printf("[Redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	redisClient = redis.NewClient(opt)
	return redisClient
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}
