package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Store backends.
const (
	BackendRemote = "remote"
	BackendMongo  = "mongo"
)

type Config struct {
	Port       string        `env:"PORT,        default=8080"`
	Env        string        `env:"ENV,         default=development"`
	JWTSecret  string        `env:"JWT_SECRET"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`
	SessionTTL time.Duration `env:"SESSION_TTL, default=12h"`

	Store   StoreConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Console ConsoleConfig
}

type StoreConfig struct {
	Backend   string        `env:"STORE_BACKEND,    default=remote"`
	BaseURL   string        `env:"STORE_BASE_URL,   default=http://localhost:8000/api"`
	Timeout   time.Duration `env:"STORE_TIMEOUT,    default=15s"`
	RateLimit float64       `env:"STORE_RATE_LIMIT, default=20"`
	Burst     int           `env:"STORE_BURST,      default=10"`
}

type MongoConfig struct {
	URI           string `env:"MONGO_URI,            default=mongodb://localhost:27017"`
	Database      string `env:"MONGO_DB,             default=printmanage"`
	AdminEmail    string `env:"MONGO_ADMIN_EMAIL"`
	AdminPassword string `env:"MONGO_ADMIN_PASSWORD"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type ConsoleConfig struct {
	DefaultPerPage int           `env:"CONSOLE_PER_PAGE,        default=10"`
	SearchDebounce time.Duration `env:"CONSOLE_SEARCH_DEBOUNCE, default=500ms"`
}

// Load reads an optional .env file, then the environment, using
// go-envconfig. It panics on invalid values.
func Load() *Config {
	_ = godotenv.Load()
	cfg, err := Process(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// Process fills a Config from l and checks the values envconfig cannot.
func Process(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	switch cfg.Store.Backend {
	case BackendRemote, BackendMongo:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendRemote, BackendMongo, cfg.Store.Backend)
	}
	return &cfg, nil
}

// Development reports whether human-friendly logs are wanted.
func (c *Config) Development() bool { return c.Env == "development" }
