package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "PETPAL"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("app.name", "pet-adoption-marketplace")

	v.SetDefault("storage.listings", "memory")
	v.SetDefault("storage.users", "memory")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "petpal")
	v.SetDefault("sqlite.path", "data/users.db")

	v.SetDefault("blob.driver", "local")
	v.SetDefault("blob.dir", "uploads")

	v.SetDefault("auth.mode", "dev")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "0s")
	v.SetDefault("auth.remote_url", "")
	v.SetDefault("auth.remote_api_key", "")
	v.SetDefault("auth.admin_email", "")
	v.SetDefault("auth.admin_password", "")
	v.SetDefault("auth.admin_name", "Admin")
}

// Load lee configPath si viene; si no, busca ./config.yaml y sigue sin él si no existe.
// Las variables PETPAL_* (p.ej. PETPAL_SERVER_PORT) pisan al archivo.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if strings.TrimSpace(configPath) != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate aplica las reglas por campo y las que cruzan secciones.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	var problems []string
	if cfg.Storage.Listings == "postgres" && strings.TrimSpace(cfg.Postgres.DSN) == "" {
		problems = append(problems, "postgres.dsn is required when storage.listings=postgres")
	}
	if cfg.UsesMongo() && (strings.TrimSpace(cfg.Mongo.URI) == "" || strings.TrimSpace(cfg.Mongo.Database) == "") {
		problems = append(problems, "mongo.uri and mongo.database are required for mongo storage")
	}
	if cfg.Storage.Users == "sqlite" && strings.TrimSpace(cfg.SQLite.Path) == "" {
		problems = append(problems, "sqlite.path is required when storage.users=sqlite")
	}
	if cfg.Blob.Driver == "local" && strings.TrimSpace(cfg.Blob.Dir) == "" {
		problems = append(problems, "blob.dir is required when blob.driver=local")
	}
	switch cfg.Auth.Mode {
	case "jwt":
		if len(cfg.Auth.JWTSecret) < 32 {
			problems = append(problems, "auth.jwt_secret must be at least 32 characters in jwt mode")
		}
	case "remote":
		if strings.TrimSpace(cfg.Auth.RemoteURL) == "" || strings.TrimSpace(cfg.Auth.RemoteAPIKey) == "" {
			problems = append(problems, "auth.remote_url and auth.remote_api_key are required in remote mode")
		}
	}
	if cfg.Auth.AdminEmail != "" && len(cfg.Auth.AdminPassword) < 8 {
		problems = append(problems, "auth.admin_password must be at least 8 characters when auth.admin_email is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}
