package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	Log    LogConfig
	CORS   CORSConfig
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// LogConfig 描述日志输出配置。
type LogConfig struct {
	Level  string
	Format string
}

// CORSConfig 描述跨域策略。默认允许所有来源，仅适用于开发环境。
type CORSConfig struct {
	AllowedOrigins []string
}

// AllowsAll reports whether every origin is accepted.
func (c CORSConfig) AllowsAll() bool {
	for _, origin := range c.AllowedOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	return load(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("shutdown_timeout", "10s")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func load(v *viper.Viper) (*Config, error) {
	server, err := loadServerConfig(v)
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig(v)
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Log: logCfg, CORS: loadCORSConfig(v)}, nil
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig(v *viper.Viper) (ServerConfig, error) {
	port := strings.TrimSpace(v.GetString("port"))
	if port == "" {
		port = "8080"
	}

	timeout, err := parseDuration(v, "shutdown_timeout")
	if err != nil {
		return ServerConfig{}, err
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port, ShutdownTimeout: timeout}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, ShutdownTimeout: timeout}, nil
}

func loadLogConfig(v *viper.Viper) (LogConfig, error) {
	level := strings.ToLower(strings.TrimSpace(v.GetString("log_level")))
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return LogConfig{}, fmt.Errorf("invalid LOG_LEVEL value: %q", level)
	}

	format := strings.ToLower(strings.TrimSpace(v.GetString("log_format")))
	switch format {
	case "text", "json":
	default:
		return LogConfig{}, fmt.Errorf("invalid LOG_FORMAT value: %q", format)
	}

	return LogConfig{Level: level, Format: format}, nil
}

func loadCORSConfig(v *viper.Viper) CORSConfig {
	var origins []string
	for _, origin := range strings.Split(v.GetString("cors_allowed_origins"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return CORSConfig{AllowedOrigins: origins}
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", strings.ToUpper(key), raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s value %q: must be positive", strings.ToUpper(key), raw)
	}
	return d, nil
}
