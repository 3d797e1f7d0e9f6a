package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string      `mapstructure:"mode"`
	Port       int         `mapstructure:"port"`
	StaticPath string      `mapstructure:"static_path"`
	Secret     string      `mapstructure:"secret"`
	LogLevel   string      `mapstructure:"log_level"`
	Match      MatchConfig `mapstructure:"match"`
	Relay      RelayConfig `mapstructure:"relay"`
	Auth       AuthConfig  `mapstructure:"auth"`
	ICE        ICEConfig   `mapstructure:"ice"`
}

type MatchConfig struct {
	TTL          time.Duration `mapstructure:"ttl"`
	JoinLimit    int           `mapstructure:"join_limit"`
	JoinInterval time.Duration `mapstructure:"join_interval"`
}

type RelayConfig struct {
	ReadLimit    int64         `mapstructure:"read_limit"`
	PingPeriod   time.Duration `mapstructure:"ping_period"`
	SendBuffer   int           `mapstructure:"send_buffer"`
	Backpressure string        `mapstructure:"backpressure"`
}

type AuthConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

type ICEServer struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

type ICEConfig struct {
	Servers []ICEServer `mapstructure:"servers"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("secret", "change-me")
	v.SetDefault("log_level", "info")
	v.SetDefault("match.ttl", "5m")
	v.SetDefault("match.join_limit", 30)
	v.SetDefault("match.join_interval", "1m")
	v.SetDefault("relay.read_limit", 32768)
	v.SetDefault("relay.ping_period", "30s")
	v.SetDefault("relay.send_buffer", 32)
	v.SetDefault("relay.backpressure", "drop")
	v.SetDefault("auth.secret_key", "")
	v.SetDefault("ice.servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302"}},
	})
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &cfg
}

// Load reads config/config.<CONFIG_ENV>.yaml (dev by default). Every key may
// be overridden from the environment, e.g. AUTH_SECRET_KEY or RELAY_PING_PERIOD.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", fileName, err)
		}
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).Msg("config ready")
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Match.TTL <= 0 {
		return fmt.Errorf("match.ttl must be positive, got %s", c.Match.TTL)
	}
	if c.Match.JoinLimit <= 0 || c.Match.JoinInterval <= 0 {
		return errors.New("match.join_limit and match.join_interval must be positive")
	}
	if c.Relay.PingPeriod <= 0 {
		return fmt.Errorf("relay.ping_period must be positive, got %s", c.Relay.PingPeriod)
	}
	if c.Relay.SendBuffer <= 0 {
		return fmt.Errorf("relay.send_buffer must be positive, got %d", c.Relay.SendBuffer)
	}
	if c.Relay.ReadLimit <= 0 {
		return fmt.Errorf("relay.read_limit must be positive, got %d", c.Relay.ReadLimit)
	}
	return nil
}
