// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_transformer_openai

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
	"github.com/rapidaai/scribe/pkg/utils"
)

const (
	DefaultTranscriptionModel = "whisper-1"
	DefaultSummaryModel       = "gpt-4o-mini"
	DefaultMaxTokens          = 1024
)

type openaiOption struct {
	logger  commons.Logger
	key     string
	mdlOpts utils.Option
}

func NewOpenaiOption(logger commons.Logger, credential utils.Option, opts utils.Option) (*openaiOption, error) {
	key, err := credential.GetString("key")
	if err != nil {
		return nil, fmt.Errorf("illegal vault config: %v", err)
	}
	return &openaiOption{logger: logger, key: key, mdlOpts: opts}, nil
}

func (o *openaiOption) GetKey() string {
	return o.key
}

func (o *openaiOption) clientOptions() []option.RequestOption {
	opts := []option.RequestOption{option.WithAPIKey(o.key)}
	if url, err := o.mdlOpts.GetString("base_url"); err == nil {
		opts = append(opts, option.WithBaseURL(url))
	}
	return opts
}

// isoLanguage trims a BCP-47 tag to the ISO-639-1 code whisper expects.
func isoLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}

func (o *openaiOption) TranscriptionParams(audio internal_type.AudioBuffer, inputLanguage string) openai.AudioTranscriptionNewParams {
	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(audio.Data), "segment.wav", audio.MimeType),
		Model: openai.AudioModel(DefaultTranscriptionModel),
	}
	if model, err := o.mdlOpts.GetString("listen.model"); err == nil {
		params.Model = openai.AudioModel(model)
	}
	if lang := isoLanguage(inputLanguage); lang != "" {
		params.Language = openai.String(lang)
	}
	if prompt, err := o.mdlOpts.GetString("listen.prompt"); err == nil {
		params.Prompt = openai.String(prompt)
	}
	return params
}

func (o *openaiOption) SummaryParams(prompt string) openai.ChatCompletionNewParams {
	model := DefaultSummaryModel
	if m, err := o.mdlOpts.GetString("summarize.model"); err == nil {
		model = m
	}
	maxTokens := uint64(DefaultMaxTokens)
	if v, err := o.mdlOpts.GetUint64("summarize.max_tokens"); err == nil {
		maxTokens = v
	}
	return openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(model),
		Messages:            []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
	}
}

type openaiSpeechToText struct {
	*openaiOption
	logger commons.Logger
	client openai.Client
}

func NewOpenaiSpeechToText(logger commons.Logger, credential utils.Option, opts utils.Option) (internal_type.SpeechToTextService, error) {
	oOpts, err := NewOpenaiOption(logger, credential, opts)
	if err != nil {
		logger.Errorf("openai-stt: initializing openai failed %+v", err)
		return nil, err
	}
	return &openaiSpeechToText{
		openaiOption: oOpts,
		logger:       logger,
		client:       openai.NewClient(oOpts.clientOptions()...),
	}, nil
}

func (*openaiSpeechToText) Name() string {
	return "openai-speech-to-text"
}

// TranscribeStream transcribes the segment, or translates it when English
// output is requested from another language.
func (o *openaiSpeechToText) TranscribeStream(ctx context.Context, audio internal_type.AudioBuffer, inputLanguage, outputLanguage string) internal_type.TextStream {
	return func(yield func(string, error) bool) {
		in, out := isoLanguage(inputLanguage), isoLanguage(outputLanguage)
		if out == "en" && in != "en" {
			res, err := o.client.Audio.Translations.New(ctx, openai.AudioTranslationNewParams{
				File:  openai.File(bytes.NewReader(audio.Data), "segment.wav", audio.MimeType),
				Model: openai.AudioModelWhisper1,
			})
			if err != nil {
				yield("", fmt.Errorf("openai translation: %w", err))
				return
			}
			yield(strings.TrimSpace(res.Text), nil)
			return
		}
		if out != "" && out != in {
			o.logger.Warnf("openai-stt: translation to %s not supported, returning %s transcript", out, in)
		}
		res, err := o.client.Audio.Transcriptions.New(ctx, o.TranscriptionParams(audio, inputLanguage))
		if err != nil {
			yield("", fmt.Errorf("openai transcription: %w", err))
			return
		}
		yield(strings.TrimSpace(res.Text), nil)
	}
}

type openaiSummarizer struct {
	*openaiOption
	logger commons.Logger
	client openai.Client
}

func NewOpenaiSummarizer(logger commons.Logger, credential utils.Option, opts utils.Option) (internal_type.SummarizationService, error) {
	oOpts, err := NewOpenaiOption(logger, credential, opts)
	if err != nil {
		logger.Errorf("openai-summary: initializing openai failed %+v", err)
		return nil, err
	}
	return &openaiSummarizer{
		openaiOption: oOpts,
		logger:       logger,
		client:       openai.NewClient(oOpts.clientOptions()...),
	}, nil
}

func (*openaiSummarizer) Name() string {
	return "openai-summarizer"
}

func (o *openaiSummarizer) SummarizeStream(ctx context.Context, prompt string) internal_type.TextStream {
	return func(yield func(string, error) bool) {
		stream := o.client.Chat.Completions.NewStreaming(ctx, o.SummaryParams(prompt))
		defer stream.Close()
		for stream.Next() {
			chunk := stream.Current()
			for _, choice := range chunk.Choices {
				if choice.Delta.Content == "" {
					continue
				}
				if !yield(choice.Delta.Content, nil) {
					return
				}
			}
		}
		if err := stream.Err(); err != nil {
			yield("", fmt.Errorf("openai summary: %w", err))
		}
	}
}
