package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Path            string `mapstructure:"path"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a Redis relay has been configured.
func (r *RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// DetectionConfig holds connection settings for the external
// weapon-detection service.
type DetectionConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	StreamEnabled  bool   `mapstructure:"stream_enabled"`
}

// PanicConfig holds defaults for panic-mode check-in sessions.
type PanicConfig struct {
	TapIntervalSeconds      int `mapstructure:"tap_interval_seconds"`
	WarningThresholdSeconds int `mapstructure:"warning_threshold_seconds"`
}

// GeoConfig holds settings for the best-effort location provider.
// An empty endpoint disables remote lookup; the sentinel location is
// used instead.
type GeoConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// NotifierConfig holds settings for the escalation webhook channel.
type NotifierConfig struct {
	WebhookURL            string `mapstructure:"webhook_url"`
	WebhookTimeoutSeconds int    `mapstructure:"webhook_timeout_seconds"`
}
