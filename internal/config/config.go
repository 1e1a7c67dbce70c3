// Package config carga la configuración desde config.yaml (opcional) y variables PETPAL_*.
package config

import "time"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	App      AppConfig      `mapstructure:"app"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Blob     BlobConfig     `mapstructure:"blob"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"gt=0,lt=65536"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type AppConfig struct {
	Name string `mapstructure:"name" validate:"required"`
}

type StorageConfig struct {
	Listings string `mapstructure:"listings" validate:"oneof=memory postgres mongo"`
	Users    string `mapstructure:"users" validate:"oneof=memory sqlite mongo"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type BlobConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=local gridfs"`
	Dir    string `mapstructure:"dir"`
}

type AuthConfig struct {
	Mode      string        `mapstructure:"mode" validate:"oneof=dev jwt remote"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" validate:"gte=0"`

	RemoteURL    string `mapstructure:"remote_url"`
	RemoteAPIKey string `mapstructure:"remote_api_key"`

	// Cuenta admin de arranque (opcional).
	AdminEmail    string `mapstructure:"admin_email" validate:"omitempty,email"`
	AdminPassword string `mapstructure:"admin_password"`
	AdminName     string `mapstructure:"admin_name"`
}

// UsesMongo indica si algún componente necesita el cliente Mongo.
func (c *Config) UsesMongo() bool {
	return c.Storage.Listings == "mongo" || c.Storage.Users == "mongo" || c.Blob.Driver == "gridfs"
}
