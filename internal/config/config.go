package config

import "time"

// Config holds configuration for both the client and the development server.
type Config struct {
	LogLevel string       `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string       `mapstructure:"log_file" yaml:"log_file"`
	Client   ClientConfig `mapstructure:"client" yaml:"client"`
	Server   ServerConfig `mapstructure:"server" yaml:"server"`
}

// ClientConfig holds the two external addresses the client needs.
type ClientConfig struct {
	GameEndpoint string        `mapstructure:"game_endpoint" yaml:"game_endpoint"`
	APIURL       string        `mapstructure:"api_url" yaml:"api_url"`
	Username     string        `mapstructure:"username" yaml:"username"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout" yaml:"http_timeout"`
}

// ServerConfig holds development server settings.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	TurnTimeout       time.Duration `mapstructure:"turn_timeout" yaml:"turn_timeout"`
	// IntentRateLimit caps intents per connection per minute. Zero disables the limit.
	IntentRateLimit int `mapstructure:"intent_rate_limit" yaml:"intent_rate_limit"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		LogLevel: "info",
		Client: ClientConfig{
			GameEndpoint: "ws://localhost:8080/ws",
			APIURL:       "http://localhost:8080",
			HTTPTimeout:  10 * time.Second,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			DatabasePath:      "ichi.db",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   5 * time.Second,
			TurnTimeout:       30 * time.Second,
			IntentRateLimit:   120,
		},
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFile != "" {
		c.LogFile = other.LogFile
	}
	if other.Client.GameEndpoint != "" {
		c.Client.GameEndpoint = other.Client.GameEndpoint
	}
	if other.Client.APIURL != "" {
		c.Client.APIURL = other.Client.APIURL
	}
	if other.Client.Username != "" {
		c.Client.Username = other.Client.Username
	}
	if other.Client.HTTPTimeout != 0 {
		c.Client.HTTPTimeout = other.Client.HTTPTimeout
	}
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.DatabasePath != "" {
		c.Server.DatabasePath = other.Server.DatabasePath
	}
	if other.Server.ReadHeaderTimeout != 0 {
		c.Server.ReadHeaderTimeout = other.Server.ReadHeaderTimeout
	}
	if other.Server.ShutdownTimeout != 0 {
		c.Server.ShutdownTimeout = other.Server.ShutdownTimeout
	}
	if other.Server.TurnTimeout != 0 {
		c.Server.TurnTimeout = other.Server.TurnTimeout
	}
	if other.Server.IntentRateLimit != 0 {
		c.Server.IntentRateLimit = other.Server.IntentRateLimit
	}
}
