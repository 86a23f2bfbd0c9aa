// Package config предоставляет структуры и функции для загрузки конфига консоли.
package config

import (
	"fmt"
	"log"
	"os"
	"time"
	// Встроенная база временных зон для контейнеров без tzdata.
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	Timezone        string `yaml:"timezone" env:"TZ_NAME" env-default:"America/Sao_Paulo"`
	HTTPServer      `yaml:"http_server"`
	API             `yaml:"api"`
	JWTToken        `yaml:"jwt"`
	RedisConnection `yaml:"redis_connection"`
	RabbitMQ        `yaml:"rabbitmq"`
	Sessions        `yaml:"sessions"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"address" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	// MutationRPS и MutationBurst ограничивают частоту запросов изменения данных.
	MutationRPS   float64 `yaml:"mutation_rps" env-default:"5"`
	MutationBurst int     `yaml:"mutation_burst" env-default:"10"`
}

// API настройки внешнего API участников и платежей.
type API struct {
	BaseURL    string        `yaml:"base_url" env:"API_BASE_URL" env-required:"true"`
	TimeoutAPI time.Duration `yaml:"timeout" env-default:"10s"`
}

// JWTToken настройки проверки токена сессии.
type JWTToken struct {
	JWTSecretKey string `yaml:"secret" env:"JWT_SECRET" env-required:"true"`
	CookieName   string `yaml:"cookie_name" env-default:"serverToken"`
	CookieSecure bool   `yaml:"cookie_secure" env-default:"false"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кеширование коллекций.
type RedisConnection struct {
	AddressRedis string        `yaml:"address"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeout"`
	CacheTTL     time.Duration `yaml:"ttl" env-default:"30s"`
}

// RabbitMQ настройки публикации событий аудита. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange   string        `yaml:"exchange" env-default:"audit"`
	Retries    int           `yaml:"retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// Sessions настройки хранения состояния представлений.
type Sessions struct {
	IdleTTL time.Duration `yaml:"idle_ttl" env-default:"30m"`
}

// Load читает конфиг из файла path, переменные окружения переопределяют значения файла.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("%s: invalid timezone %q: %w", op, cfg.Timezone, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
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

// Location временная зона, в которой вычисляются текущий месяц и даты.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Timezone: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"API:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"Redis:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  TTL: %s\n"+
			"RabbitMQ:\n"+
			"  Exchange: %s\n"+
			"Sessions:\n"+
			"  IdleTTL: %s\n",
		c.Env,
		c.Timezone,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.BaseURL,
		c.TimeoutAPI,
		c.AddressRedis,
		c.DB,
		c.CacheTTL,
		c.Exchange,
		c.IdleTTL,
	)
}
