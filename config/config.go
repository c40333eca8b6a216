// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package config

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rapidaai/scribe/pkg/configs"
	"github.com/spf13/viper"
)

// Application config structure
type AppConfig struct {
	Name     string `mapstructure:"service_name" validate:"required"`
	Version  string `mapstructure:"version" validate:"required"`
	Env      string `mapstructure:"env"`
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required"`
	LogLevel string `mapstructure:"log_level" validate:"required"`
	LogPath  string `mapstructure:"log_path"`

	Session      configs.SessionConfig      `mapstructure:"session" validate:"required"`
	Audio        configs.AudioConfig        `mapstructure:"audio" validate:"required"`
	Transcriber  configs.ProviderConfig     `mapstructure:"transcriber" validate:"required"`
	Summarizer   configs.ProviderConfig     `mapstructure:"summarizer" validate:"required"`
	Availability configs.AvailabilityConfig `mapstructure:"availability"`
	Redis        configs.RedisConfig        `mapstructure:"redis"`
	Archive      configs.ArchiveConfig      `mapstructure:"archive"`
	Mcp          configs.McpConfig          `mapstructure:"mcp"`
}

// reading config and intializing configs for application
func InitConfig() (*viper.Viper, error) {
	vConfig := viper.NewWithOptions(viper.KeyDelimiter("__"))

	vConfig.AddConfigPath(".")
	vConfig.SetConfigName(".env")
	if path := os.Getenv("ENV_PATH"); path != "" {
		log.Printf("env path %v", path)
		vConfig.SetConfigFile(path)
	}
	vConfig.SetConfigType("env")
	vConfig.AutomaticEnv()

	setDefault(vConfig)
	if err := vConfig.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		log.Printf("Reading from env varaibles.")
	}
	return vConfig, nil
}

func setDefault(v *viper.Viper) {
	// keeping watch on https://github.com/spf13/viper/issues/188
	v.SetDefault("SERVICE_NAME", "scribe-api")
	v.SetDefault("VERSION", "0.0.1")
	v.SetDefault("ENV", "development")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 9090)
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("LOG_PATH", "")

	v.SetDefault("SESSION__TOTAL_DURATION_SECONDS", 900)
	v.SetDefault("SESSION__SEGMENT_DURATION_SECONDS", 30)
	v.SetDefault("SESSION__INPUT_LANGUAGE", "ja")
	v.SetDefault("SESSION__OUTPUT_LANGUAGE", "ja")
	v.SetDefault("SESSION__TICK_INTERVAL", "1s")

	v.SetDefault("AUDIO__SAMPLE_RATE", 16000)
	v.SetDefault("AUDIO__CHANNELS", 1)
	v.SetDefault("AUDIO__ENCODING", "linear16")

	v.SetDefault("TRANSCRIBER__PROVIDER", "gemini")
	v.SetDefault("TRANSCRIBER__API_KEY", "")
	v.SetDefault("TRANSCRIBER__MODEL", "")
	v.SetDefault("TRANSCRIBER__PROJECT_ID", "")
	v.SetDefault("TRANSCRIBER__REGION", "global")
	v.SetDefault("TRANSCRIBER__PROMPT", "")

	v.SetDefault("SUMMARIZER__PROVIDER", "gemini")
	v.SetDefault("SUMMARIZER__API_KEY", "")
	v.SetDefault("SUMMARIZER__MODEL", "")
	v.SetDefault("SUMMARIZER__PROJECT_ID", "")
	v.SetDefault("SUMMARIZER__REGION", "")
	v.SetDefault("SUMMARIZER__PROMPT", "")

	v.SetDefault("AVAILABILITY__URL", "")
	v.SetDefault("AVAILABILITY__TIMEOUT", "5s")

	v.SetDefault("REDIS__HOST", "")
	v.SetDefault("REDIS__PORT", 6379)
	v.SetDefault("REDIS__PASSWORD", "")
	v.SetDefault("REDIS__DB", 0)
	v.SetDefault("REDIS__CHANNEL", "scribe:session")

	v.SetDefault("ARCHIVE__DRIVER", "")
	v.SetDefault("ARCHIVE__DSN", "")
	v.SetDefault("ARCHIVE__MAX_OPEN_CONNECTION", 10)
	v.SetDefault("ARCHIVE__MAX_IDEAL_CONNECTION", 10)

	v.SetDefault("MCP__TRANSPORT", "http")
}

// Getting application config from viper
func GetApplicationConfig(v *viper.Viper) (*AppConfig, error) {
	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		log.Printf("%+v\n", err)
		return nil, err
	}

	// valdating the app config
	validate := validator.New()
	if err := validate.Struct(&config); err != nil {
		log.Printf("%+v\n", err)
		return nil, err
	}
	if config.Session.TotalDurationSeconds%config.Session.SegmentDurationSeconds != 0 {
		return nil, fmt.Errorf("segment duration %ds must evenly divide total duration %ds",
			config.Session.SegmentDurationSeconds, config.Session.TotalDurationSeconds)
	}
	return &config, nil
}
