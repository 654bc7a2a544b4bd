package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Paging   PagingConfig   `mapstructure:"paging" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// PublicURL is the absolute base URL used to render hypermedia links.
	// When empty, links are host-relative.
	PublicURL      string   `mapstructure:"public_url" validate:"omitempty,url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
}

// PagingConfig bounds the page sizes clients may request.
type PagingConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size" validate:"gte=1,ltefield=MaxPageSize"`
	MaxPageSize     int `mapstructure:"max_page_size" validate:"gte=1"`
}
