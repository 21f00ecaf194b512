package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/spf13/viper"
)

type Config struct {
	Mode          string        `mapstructure:"mode"`
	Port          int           `mapstructure:"port"`
	ReadLimit     int64         `mapstructure:"read_limit"`
	SendBuffer    int           `mapstructure:"send_buffer"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`

	STUNURLs       string `mapstructure:"stun_urls"`
	TURNURLs       string `mapstructure:"turn_urls"`
	TURNUsername   string `mapstructure:"turn_username"`
	TURNCredential string `mapstructure:"turn_credential"`

	// ICEServers is derived from the stun/turn settings at load time and
	// served to clients before they build peer connections.
	ICEServers []webrtc.ICEServer `mapstructure:"-"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("HUDDLE")
	v.AutomaticEnv()

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("read_limit", 65536)
	v.SetDefault("send_buffer", 32)
	v.SetDefault("write_timeout", "5s")
	v.SetDefault("sweep_interval", "30s")
	v.SetDefault("stun_urls", "stun:stun.l.google.com:19302")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("config file not found (%s), using defaults\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	iceServers, err := ParseICEServers(cfg.STUNURLs, cfg.TURNURLs, cfg.TURNUsername, cfg.TURNCredential)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ice servers: %w", err)
	}
	cfg.ICEServers = iceServers

	return &cfg, nil
}
