// Package config предоставялет структуры и функции для парсинга и загрузки конфига scoring-api.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer      `yaml:"http_server"`
	RedisConnection `yaml:"redis_connection"`
	Auth            `yaml:"auth"`
	RateLimit       `yaml:"rate_limit"`
	Log             `yaml:"log"`
	Cache           `yaml:"cache"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis и политики повторов.
type RedisConnection struct {
	AddressRedis string        `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeout" env:"REDIS_TIMEOUT" env-default:"5s"`
	PoolSize     int           `yaml:"pool_size" env:"REDIS_POOL_SIZE" env-default:"10"`
	RetryTimes   int           `yaml:"retry_times" env:"REDIS_RETRY_TIMES" env-default:"3"`
	RetryDelay   time.Duration `yaml:"retry_delay" env:"REDIS_RETRY_DELAY" env-default:"100ms"`
}

// Auth структура с секретами для проверки токенов.
type Auth struct {
	Salt       string `yaml:"salt" env:"AUTH_SALT" env-default:"Otus"`
	AdminLogin string `yaml:"admin_login" env:"AUTH_ADMIN_LOGIN" env-default:"admin"`
	AdminSalt  string `yaml:"admin_salt" env:"AUTH_ADMIN_SALT" env-default:"42"`
}

// RateLimit структура для настройки ограничителя запросов
type RateLimit struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"100"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"200"`
}

// Log структура для настройки вывода логов. Пустой File означает stdout.
type Log struct {
	File string `yaml:"file" env:"LOG_FILE"`
}

// Cache структура для настройки времени жизни закешированного скора.
type Cache struct {
	ScoreTTL time.Duration `yaml:"score_ttl" env:"CACHE_SCORE_TTL" env-default:"1h"`
}

// MustLoad функция для загрузки конфига из файла CONFIG_PATH, завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает конфиг из файла path, переменные окружения перекрывают значения из файла.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.RetryTimes < 1 {
		return nil, fmt.Errorf("%s: retry_times must be at least 1, got %d", op, cfg.RetryTimes)
	}
	return &cfg, nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  Password: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"  DialTimeout: %s\n"+
			"  Timeout: %s\n"+
			"  RetryTimes: %d\n"+
			"  RetryDelay: %s\n"+
			"Auth:\n"+
			"  AdminLogin: %s\n"+
			"  Salt: %s\n"+
			"  AdminSalt: %s\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.AddressRedis,
		mask(c.Password),
		c.User,
		c.DB,
		c.DialTimeout,
		c.TimeoutRedis,
		c.RetryTimes,
		c.RetryDelay,
		c.AdminLogin,
		mask(c.Salt),
		mask(c.AdminSalt),
	)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}
