// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_transformer

import (
	"context"
	"fmt"
	"strings"

	internal_transformer_anthropic "github.com/rapidaai/scribe/api/scribe-api/internal/transformer/anthropic"
	internal_transformer_deepgram "github.com/rapidaai/scribe/api/scribe-api/internal/transformer/deepgram"
	internal_transformer_gemini "github.com/rapidaai/scribe/api/scribe-api/internal/transformer/gemini"
	internal_transformer_google "github.com/rapidaai/scribe/api/scribe-api/internal/transformer/google"
	internal_transformer_openai "github.com/rapidaai/scribe/api/scribe-api/internal/transformer/openai"
	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
	"github.com/rapidaai/scribe/pkg/configs"
	"github.com/rapidaai/scribe/pkg/utils"
)

type Provider string

const (
	DEEPGRAM  Provider = "deepgram"
	OPENAI    Provider = "openai"
	GOOGLE    Provider = "google"
	GEMINI    Provider = "gemini"
	ANTHROPIC Provider = "anthropic"
)

// Credential returns the vault-style credential map for a provider config.
func Credential(cfg configs.ProviderConfig) utils.Option {
	return utils.Option{
		"key":        cfg.ApiKey,
		"project_id": cfg.ProjectId,
	}
}

// ListenOptions maps a transcriber config to provider options.
func ListenOptions(cfg configs.ProviderConfig) utils.Option {
	opts := utils.Option{}
	if cfg.Model != "" {
		opts["listen.model"] = cfg.Model
	}
	if cfg.Region != "" {
		opts["listen.region"] = cfg.Region
	}
	if cfg.Prompt != "" {
		opts["listen.prompt"] = cfg.Prompt
	}
	return opts
}

// SummarizeOptions maps a summarizer config to provider options. The prompt
// is a template owned by the aggregator, not the provider.
func SummarizeOptions(cfg configs.ProviderConfig) utils.Option {
	opts := utils.Option{}
	if cfg.Model != "" {
		opts["summarize.model"] = cfg.Model
	}
	if cfg.Region != "" {
		opts["listen.region"] = cfg.Region
	}
	return opts
}

func NewSpeechToText(ctx context.Context, logger commons.Logger, cfg configs.ProviderConfig) (internal_type.SpeechToTextService, error) {
	credential, opts := Credential(cfg), ListenOptions(cfg)
	switch Provider(strings.ToLower(cfg.Provider)) {
	case DEEPGRAM:
		return internal_transformer_deepgram.NewDeepgramSpeechToText(logger, credential, opts)
	case OPENAI:
		return internal_transformer_openai.NewOpenaiSpeechToText(logger, credential, opts)
	case GOOGLE:
		return internal_transformer_google.NewGoogleSpeechToText(ctx, logger, credential, opts)
	case GEMINI:
		return internal_transformer_gemini.NewGeminiSpeechToText(ctx, logger, credential, opts)
	default:
		return nil, fmt.Errorf("illegal speech to text provider %q", cfg.Provider)
	}
}

func NewSummarizer(ctx context.Context, logger commons.Logger, cfg configs.ProviderConfig) (internal_type.SummarizationService, error) {
	credential, opts := Credential(cfg), SummarizeOptions(cfg)
	switch Provider(strings.ToLower(cfg.Provider)) {
	case OPENAI:
		return internal_transformer_openai.NewOpenaiSummarizer(logger, credential, opts)
	case ANTHROPIC:
		return internal_transformer_anthropic.NewAnthropicSummarizer(logger, credential, opts)
	case GEMINI:
		return internal_transformer_gemini.NewGeminiSummarizer(ctx, logger, credential, opts)
	default:
		return nil, fmt.Errorf("illegal summarization provider %q", cfg.Provider)
	}
}
