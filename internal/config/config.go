package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config concentra toda a configuração do serviço, carregada do ambiente
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Port        string `envconfig:"PORT" default:"8080"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"bookstore-api"`

	DatabaseUser     string `envconfig:"DATABASE_USER" default:"root"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" default:"pass"`
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     string `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"bookstore_db"`

	MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:"file://migrations"`

	// Segredos distintos por namespace: um token de usuário nunca valida
	// contra rotas administrativas e vice-versa.
	UserJWTSecret  string `envconfig:"JWT_SECRET_KEY" default:"user-secret-key"`
	AdminJWTSecret string `envconfig:"ADMIN_JWT_SECRET_KEY" default:"admin-secret-key"`
	TokenTTL       string `envconfig:"TOKEN_TTL" default:"1h"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisCacheTTL string `envconfig:"REDIS_CACHE_TTL" default:"5m"`

	AMQPURL string `envconfig:"AMQP_URL"`

	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4318"`
}

// Load carrega a configuração a partir das variáveis de ambiente
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("bookstore", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config from environment: %w", err)
	}
	return cfg, nil
}

// DatabaseDSN monta a string de conexão do PostgreSQL
func (c Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseName,
	)
}

// IsDev indica se o serviço roda em modo de desenvolvimento
func (c Config) IsDev() bool {
	return c.Environment == "development"
}
