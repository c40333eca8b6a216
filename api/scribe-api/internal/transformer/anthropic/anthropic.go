// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_transformer_anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
	"github.com/rapidaai/scribe/pkg/utils"
)

const (
	DefaultModel     = "claude-3-5-haiku-latest"
	DefaultMaxTokens = 1024
)

type anthropicOption struct {
	logger  commons.Logger
	key     string
	mdlOpts utils.Option
}

func NewAnthropicOption(logger commons.Logger, credential utils.Option, opts utils.Option) (*anthropicOption, error) {
	key, err := credential.GetString("key")
	if err != nil {
		return nil, fmt.Errorf("illegal vault config: %v", err)
	}
	return &anthropicOption{logger: logger, key: key, mdlOpts: opts}, nil
}

func (a *anthropicOption) clientOptions() []option.RequestOption {
	opts := []option.RequestOption{option.WithAPIKey(a.key)}
	if url, err := a.mdlOpts.GetString("base_url"); err == nil {
		opts = append(opts, option.WithBaseURL(url))
	}
	return opts
}

func (a *anthropicOption) MessageParams(prompt string) anthropic.MessageNewParams {
	model := DefaultModel
	if m, err := a.mdlOpts.GetString("summarize.model"); err == nil {
		model = m
	}
	maxTokens := int64(DefaultMaxTokens)
	if v, err := a.mdlOpts.GetUint64("summarize.max_tokens"); err == nil {
		maxTokens = int64(v)
	}
	return anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
}

type anthropicSummarizer struct {
	*anthropicOption
	logger commons.Logger
	client anthropic.Client
}

func NewAnthropicSummarizer(logger commons.Logger, credential utils.Option, opts utils.Option) (internal_type.SummarizationService, error) {
	aOpts, err := NewAnthropicOption(logger, credential, opts)
	if err != nil {
		logger.Errorf("anthropic-summary: initializing anthropic failed %+v", err)
		return nil, err
	}
	return &anthropicSummarizer{
		anthropicOption: aOpts,
		logger:          logger,
		client:          anthropic.NewClient(aOpts.clientOptions()...),
	}, nil
}

func (*anthropicSummarizer) Name() string {
	return "anthropic-summarizer"
}

func (a *anthropicSummarizer) SummarizeStream(ctx context.Context, prompt string) internal_type.TextStream {
	return func(yield func(string, error) bool) {
		stream := a.client.Messages.NewStreaming(ctx, a.MessageParams(prompt))
		defer stream.Close()
		for stream.Next() {
			event := stream.Current()
			switch ev := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				if delta, ok := ev.Delta.AsAny().(anthropic.TextDelta); ok && delta.Text != "" {
					if !yield(delta.Text, nil) {
						return
					}
				}
			}
		}
		if err := stream.Err(); err != nil {
			yield("", fmt.Errorf("anthropic summary: %w", err))
		}
	}
}
