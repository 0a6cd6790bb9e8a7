package app

import (
	"strings"

	iauth "github.com/nazmulhs/campushub/internal/auth"
	"github.com/nazmulhs/campushub/internal/cache"
	"github.com/nazmulhs/campushub/internal/database"
	"github.com/nazmulhs/campushub/internal/media"
	"github.com/nazmulhs/campushub/pkg/mail"
)

// DatabaseConfig converts the application settings to the database package
// representation for the configured driver.
func (c DatabaseConfig) DatabaseConfig() database.Config {
	cfg := database.Config{
		Driver: strings.ToLower(strings.TrimSpace(c.Driver)),
		Path:   c.Path,
		DSN:    c.DSN,
	}

	switch cfg.Driver {
	case "postgres":
		cfg.Host = c.Postgres.Host
		cfg.Port = c.Postgres.Port
		cfg.Name = c.Postgres.Database
		cfg.User = c.Postgres.Username
		cfg.Password = c.Postgres.Password
	case "mysql":
		cfg.Host = c.MySQL.Host
		cfg.Port = c.MySQL.Port
		cfg.Name = c.MySQL.Database
		cfg.User = c.MySQL.Username
		cfg.Password = c.MySQL.Password
	}

	return cfg
}

// JWTConfig converts the auth settings to the auth package representation.
func (c AuthConfig) JWTConfig() iauth.JWTConfig {
	return iauth.JWTConfig{
		Secret:        c.JWT.Secret,
		Issuer:        c.JWT.Issuer,
		UserTokenTTL:  c.JWT.UserTokenTTL,
		GuestTokenTTL: c.JWT.GuestTokenTTL,
	}
}

// SMTPSettings converts EmailConfig to the mail package representation.
func (c EmailConfig) SMTPSettings() mail.SMTPSettings {
	return mail.SMTPSettings{
		Enabled:  c.SMTP.Enabled,
		Host:     c.SMTP.Host,
		Port:     c.SMTP.Port,
		Username: c.SMTP.Username,
		Password: c.SMTP.Password,
		From:     c.SMTP.From,
		UseTLS:   c.SMTP.UseTLS,
		Timeout:  c.SMTP.Timeout,
	}
}

// RedisClientConfig converts the cache configuration to the cache package representation.
func (c CacheConfig) RedisClientConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Address:  strings.TrimSpace(c.Redis.Address),
		Username: strings.TrimSpace(c.Redis.Username),
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		TLS:      c.Redis.TLS,
		Timeout:  c.Redis.Timeout,
	}
}

// UploaderConfig converts the media settings to the media package representation.
func (c MediaConfig) UploaderConfig() media.Config {
	return media.Config{
		BaseURL:   strings.TrimSpace(c.BaseURL),
		CloudName: strings.TrimSpace(c.CloudName),
		APIKey:    c.APIKey,
		APISecret: c.APISecret,
		Timeout:   c.Timeout,
	}
}
