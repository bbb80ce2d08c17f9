package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	Database DatabaseConfig `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
	Platform PlatformConfig `envPrefix:"PLATFORM_"`
	Queue    QueueConfig    `envPrefix:"QUEUE_"`
}

type DatabaseConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD" envDefault:"postgres"`
	DBName   string `env:"NAME" envDefault:"postgres"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"`
}

type RedisConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type AuthConfig struct {
	// JWTSecret 簽發與驗證 Bearer token 的 HMAC 秘密
	JWTSecret string `env:"JWT_SECRET,required"`
}

type PlatformConfig struct {
	// Admin 啟動時自動 initialize 用的 admin principal；留空則跳過
	Admin string `env:"ADMIN"`
}

type QueueConfig struct {
	BufferSize int `env:"BUFFER_SIZE" envDefault:"256"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	return &cfg, nil
}
