package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Server    Server    `yaml:"server"`
	Reconnect Reconnect `yaml:"reconnect"`
	Session   Session   `yaml:"session"`
	Redis     Redis     `yaml:"redis"`
	Player    Player    `yaml:"player"`
	Sandbox   Sandbox   `yaml:"sandbox"`
}

type Server struct {
	BaseURL          string        `yaml:"base-url" env:"SERVER_BASE_URL" env-default:"http://localhost:8080"`
	WSPath           string        `yaml:"ws-path" env-default:"/ws"`
	AuthPath         string        `yaml:"auth-path" env-default:"/api/auth"`
	RequestTimeout   time.Duration `yaml:"request-timeout" env-default:"10s"`
	HandshakeTimeout time.Duration `yaml:"handshake-timeout" env-default:"10s"`
}

type Reconnect struct {
	BaseDelay   time.Duration `yaml:"base-delay" env-default:"1s"`
	MaxDelay    time.Duration `yaml:"max-delay" env-default:"30s"`
	MaxAttempts int           `yaml:"max-attempts" env-default:"5"`
}

type Session struct {
	Store   string `yaml:"store" env:"SESSION_STORE" env-default:"memory"`
	Profile string `yaml:"profile" env:"SESSION_PROFILE" env-default:"default"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Player struct {
	Username string `yaml:"username" env:"PLAYER_USERNAME"`
	Password string `yaml:"password" env:"PLAYER_PASSWORD"`
	TableID  string `yaml:"table-id" env:"PLAYER_TABLE_ID"`
	SeatNo   int    `yaml:"seat-no" env:"PLAYER_SEAT_NO" env-default:"-1"`
	BuyIn    int64  `yaml:"buy-in" env:"PLAYER_BUY_IN"`
}

// Sandbox configures the local stand-in server used for offline play.
type Sandbox struct {
	Port       string `yaml:"port" env:"SANDBOX_PORT" env-default:"8080"`
	JWTSecret  string `yaml:"jwt-secret" env:"SANDBOX_JWT_SECRET" env-default:"sandbox-secret"`
	StartChips int64  `yaml:"start-chips" env-default:"10000"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Server) GetBaseURL() (*url.URL, error) {
	base, err := url.Parse(that.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server base url %q: %w", that.BaseURL, err)
	}

	if base.Host == "" {
		return nil, fmt.Errorf("invalid server base url %q: missing host", that.BaseURL)
	}

	return base, nil
}
