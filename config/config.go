package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session stores.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds the settings of the needs board service.
type Config struct {
	Env     string  // Env is the current environment: local, development, production.
	Port    int     // Port is the HTTP listen port.
	APIKey  string  // APIKey guards the pprof endpoints.
	Admin   Admin   // Admin is the single administrator account.
	Session Session // Session configures cookies and session storage.
	Redis   Redis   // Redis is used when Session.Store is "redis".
	Kafka   Kafka   // Kafka receives need lifecycle events when brokers are set.
}

type Admin struct {
	User     string
	Password string
}

type Session struct {
	Secret string        // Secret derives the cookie encryption key.
	TTL    time.Duration // TTL is the idle expiration of a session.
	Store  string        // Store is "memory" or "redis".
	Secure bool          // Secure limits the session cookie to HTTPS.
}

type Redis struct {
	Addr     string
	Password string
}

type Kafka struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
}

// Enabled reports whether events should be sent to Kafka.
func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

// MustLoad reads the configuration from the environment (and an optional .env file).
func MustLoad() *Config {
	_ = godotenv.Load()

	port, err := strconv.Atoi(setDefaultEnv("PORT", "8000"))
	if err != nil {
		panic("failed to parse port from configuration")
	}

	ttl, err := time.ParseDuration(setDefaultEnv("SESSION_TTL", "24h"))
	if err != nil {
		panic("failed to parse session ttl from configuration")
	}

	secure, err := strconv.ParseBool(setDefaultEnv("SESSION_SECURE", "false"))
	if err != nil {
		panic("failed to parse session secure flag from configuration")
	}

	store := strings.ToLower(setDefaultEnv("SESSION_STORE", StoreMemory))
	if store != StoreMemory && store != StoreRedis {
		panic("session store must be memory or redis")
	}

	return &Config{
		Env:    setDefaultEnv("ENV", "production"),
		Port:   port,
		APIKey: os.Getenv("ApiKey"),
		Admin: Admin{
			User:     setDefaultEnv("ADMIN_USER", "admin"),
			Password: setDefaultEnv("ADMIN_PASS", "admin123"),
		},
		Session: Session{
			Secret: setDefaultEnv("SESSION_SECRET", "supersecretkey"),
			TTL:    ttl,
			Store:  store,
			Secure: secure,
		},
		Redis: Redis{
			Addr:     os.Getenv("RedisAddr"),
			Password: os.Getenv("RedisPassword"),
		},
		Kafka: Kafka{
			Brokers:       splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:         setDefaultEnv("NEEDS_EVENTS_TOPIC", "topic.needs.events"),
			ConsumerGroup: setDefaultEnv("CONSUMER_GROUP", "needs_audit_consumer"),
		},
	}
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
