package cache

import (
	"time"

	"github.com/go-redis/redis"
	"github.com/gofiber/fiber/v2"
)

const defaultPrefix = "needs_board:session:"

var _ fiber.Storage = (*RedisStorage)(nil)

// RedisStorage keeps fiber session data in Redis under a key prefix.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

func NewRedisStorage(addr, password string) *RedisStorage {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &RedisStorage{client: client, prefix: defaultPrefix}
}

// Ping checks the connection, so startup can fail fast on a bad address.
func (s *RedisStorage) Ping() error {
	return s.client.Ping().Err()
}

// Get returns nil without error when the key does not exist.
func (s *RedisStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}

	val, err := s.client.Get(s.key(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return val, err
}

func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	return s.client.Set(s.key(key), val, exp).Err()
}

func (s *RedisStorage) Delete(key string) error {
	if key == "" {
		return nil
	}

	return s.client.Del(s.key(key)).Err()
}

// Reset removes every session key, leaving the rest of the database alone.
func (s *RedisStorage) Reset() error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(cursor, s.prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}

func (s *RedisStorage) key(k string) string {
	return s.prefix + k
}
