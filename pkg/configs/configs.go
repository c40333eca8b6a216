// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package configs

import "time"

// SessionConfig holds the default recording session parameters.
type SessionConfig struct {
	TotalDurationSeconds   int           `mapstructure:"total_duration_seconds" validate:"required,gt=0"`
	SegmentDurationSeconds int           `mapstructure:"segment_duration_seconds" validate:"required,gt=0"`
	InputLanguage          string        `mapstructure:"input_language" validate:"required"`
	OutputLanguage         string        `mapstructure:"output_language" validate:"required"`
	TickInterval           time.Duration `mapstructure:"tick_interval"`
}

// ProviderConfig selects an external speech or language model provider.
type ProviderConfig struct {
	Provider  string `mapstructure:"provider" validate:"required"`
	ApiKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	ProjectId string `mapstructure:"project_id"`
	Region    string `mapstructure:"region"`
	Prompt    string `mapstructure:"prompt"`
}

type AudioConfig struct {
	SampleRate int    `mapstructure:"sample_rate" validate:"required,gt=0"`
	Channels   int    `mapstructure:"channels" validate:"required,gt=0"`
	Encoding   string `mapstructure:"encoding" validate:"required,oneof=linear16 mulaw"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// Enabled reports whether a redis host has been configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type ArchiveConfig struct {
	Driver             string `mapstructure:"driver" validate:"omitempty,oneof=sqlite postgres"`
	DSN                string `mapstructure:"dsn"`
	MaxOpenConnection  int    `mapstructure:"max_open_connection"`
	MaxIdealConnection int    `mapstructure:"max_ideal_connection"`
}

func (a ArchiveConfig) Enabled() bool {
	return a.Driver != "" && a.DSN != ""
}

type AvailabilityConfig struct {
	Url     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// McpConfig selects how the MCP tools are exposed: mounted on the http
// server, over stdin/stdout, or not at all.
type McpConfig struct {
	Transport string `mapstructure:"transport" validate:"omitempty,oneof=http stdio disabled"`
}
