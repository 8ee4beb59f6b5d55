package config

import (
	"errors"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Exchange ExchangeConfig
	Runtime  RuntimeConfig
}

type ExchangeConfig struct {
	PublicURL      string
	PrivateURL     string
	WSPublicURL    string
	WSPrivateURL   string
	ApiKey         string
	Secret         string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

type RuntimeConfig struct {
	Log LogConfig
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

var envPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// Load reads configs/config.yaml (or the given file), applies GMOCOIN_*
// environment overrides and expands ${VAR} references in credentials.
// A missing config file is not an error.
func Load(file string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("GMOCOIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Exchange = ExchangeConfig{
		PublicURL:      v.GetString("exchange.public_url"),
		PrivateURL:     v.GetString("exchange.private_url"),
		WSPublicURL:    v.GetString("exchange.ws_public_url"),
		WSPrivateURL:   v.GetString("exchange.ws_private_url"),
		ApiKey:         envSub(v, "exchange.api_key"),
		Secret:         envSub(v, "exchange.secret"),
		ConnectTimeout: v.GetDuration("exchange.connect_timeout"),
		ReadTimeout:    v.GetDuration("exchange.read_timeout"),
	}

	cfg.Runtime = RuntimeConfig{
		Log: LogConfig{
			Level:      v.GetString("runtime.log.level"),
			Format:     v.GetString("runtime.log.format"),
			File:       v.GetString("runtime.log.file"),
			MaxSize:    v.GetInt("runtime.log.max_size"),
			MaxBackups: v.GetInt("runtime.log.max_backups"),
			MaxAge:     v.GetInt("runtime.log.max_age"),
			Compress:   v.GetBool("runtime.log.compress"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("exchange.public_url", "https://api.coin.z.com/public")
	v.SetDefault("exchange.private_url", "https://api.coin.z.com/private")
	v.SetDefault("exchange.ws_public_url", "wss://api.coin.z.com/ws/public/v1")
	v.SetDefault("exchange.ws_private_url", "wss://api.coin.z.com/ws/private/v1")
	v.SetDefault("exchange.api_key", "")
	v.SetDefault("exchange.secret", "")
	v.SetDefault("exchange.connect_timeout", "5s")
	v.SetDefault("exchange.read_timeout", "20s")
	v.SetDefault("runtime.log.level", "info")
	v.SetDefault("runtime.log.format", "text")
	v.SetDefault("runtime.log.file", "stderr")
	v.SetDefault("runtime.log.max_size", 50)
	v.SetDefault("runtime.log.max_backups", 3)
	v.SetDefault("runtime.log.max_age", 28)
}

func envSub(v *viper.Viper, key string) string {
	val := v.GetString(key)
	if val == "" {
		return ""
	}

	return envPattern.ReplaceAllStringFunc(val, func(match string) string {
		envKey := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(envKey)
	})
}
