// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_transformer_gemini

import (
	"context"
	"fmt"
	"strings"

	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
	"github.com/rapidaai/scribe/pkg/utils"
	"google.golang.org/genai"
)

const (
	DefaultModel               = "gemini-2.5-flash"
	DefaultTranscriptionPrompt = "Transcribe the audio."
	DefaultLocation            = "us-central1"
)

type geminiOption struct {
	logger    commons.Logger
	key       string
	projectId string
	mdlOpts   utils.Option
}

// NewGeminiOption accepts either an API key or a project id (Vertex AI).
func NewGeminiOption(logger commons.Logger, credential utils.Option, opts utils.Option) (*geminiOption, error) {
	key, _ := credential.GetString("key")
	project, _ := credential.GetString("project_id")
	if key == "" && project == "" {
		return nil, fmt.Errorf("illegal vault config: key or project_id is required")
	}
	return &geminiOption{logger: logger, key: key, projectId: project, mdlOpts: opts}, nil
}

func (g *geminiOption) ClientConfig() *genai.ClientConfig {
	cfg := &genai.ClientConfig{}
	if g.key != "" {
		cfg.APIKey = g.key
		cfg.Backend = genai.BackendGeminiAPI
	} else {
		cfg.Project = g.projectId
		cfg.Location = DefaultLocation
		if region, err := g.mdlOpts.GetString("listen.region"); err == nil && region != "global" {
			cfg.Location = region
		}
		cfg.Backend = genai.BackendVertexAI
	}
	if url, err := g.mdlOpts.GetString("base_url"); err == nil {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: url}
	}
	return cfg
}

func (g *geminiOption) model(key string) string {
	if m, err := g.mdlOpts.GetString(key); err == nil {
		return m
	}
	return DefaultModel
}

// TranscriptionPrompt tells the model which language it hears and which to write.
func (g *geminiOption) TranscriptionPrompt(inputLanguage, outputLanguage string) string {
	prompt := DefaultTranscriptionPrompt
	if p, err := g.mdlOpts.GetString("listen.prompt"); err == nil {
		prompt = p
	}
	var sb strings.Builder
	sb.WriteString(prompt)
	if inputLanguage != "" {
		fmt.Fprintf(&sb, " The speech is in %s.", inputLanguage)
	}
	if outputLanguage != "" && outputLanguage != inputLanguage {
		fmt.Fprintf(&sb, " Write the transcript in %s.", outputLanguage)
	}
	sb.WriteString(" Return only the transcript.")
	return sb.String()
}

func stream(ctx context.Context, client *genai.Client, model string, contents []*genai.Content) internal_type.TextStream {
	return func(yield func(string, error) bool) {
		for resp, err := range client.Models.GenerateContentStream(ctx, model, contents, nil) {
			if err != nil {
				yield("", fmt.Errorf("gemini %s: %w", model, err))
				return
			}
			if text := resp.Text(); text != "" {
				if !yield(text, nil) {
					return
				}
			}
		}
	}
}

type geminiSpeechToText struct {
	*geminiOption
	logger commons.Logger
	client *genai.Client
}

func NewGeminiSpeechToText(ctx context.Context, logger commons.Logger, credential utils.Option, opts utils.Option) (internal_type.SpeechToTextService, error) {
	gOpts, err := NewGeminiOption(logger, credential, opts)
	if err != nil {
		logger.Errorf("gemini-stt: initializing gemini failed %+v", err)
		return nil, err
	}
	client, err := genai.NewClient(ctx, gOpts.ClientConfig())
	if err != nil {
		logger.Errorf("gemini-stt: unable to create client %+v", err)
		return nil, err
	}
	return &geminiSpeechToText{geminiOption: gOpts, logger: logger, client: client}, nil
}

func (*geminiSpeechToText) Name() string {
	return "gemini-speech-to-text"
}

func (g *geminiSpeechToText) TranscribeStream(ctx context.Context, audio internal_type.AudioBuffer, inputLanguage, outputLanguage string) internal_type.TextStream {
	mime := audio.MimeType
	if mime == "" {
		mime = "audio/wav"
	}
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(g.TranscriptionPrompt(inputLanguage, outputLanguage)),
			genai.NewPartFromBytes(audio.Data, mime),
		}, genai.RoleUser),
	}
	return stream(ctx, g.client, g.model("listen.model"), contents)
}

type geminiSummarizer struct {
	*geminiOption
	logger commons.Logger
	client *genai.Client
}

func NewGeminiSummarizer(ctx context.Context, logger commons.Logger, credential utils.Option, opts utils.Option) (internal_type.SummarizationService, error) {
	gOpts, err := NewGeminiOption(logger, credential, opts)
	if err != nil {
		logger.Errorf("gemini-summary: initializing gemini failed %+v", err)
		return nil, err
	}
	client, err := genai.NewClient(ctx, gOpts.ClientConfig())
	if err != nil {
		logger.Errorf("gemini-summary: unable to create client %+v", err)
		return nil, err
	}
	return &geminiSummarizer{geminiOption: gOpts, logger: logger, client: client}, nil
}

func (*geminiSummarizer) Name() string {
	return "gemini-summarizer"
}

func (g *geminiSummarizer) SummarizeStream(ctx context.Context, prompt string) internal_type.TextStream {
	return stream(ctx, g.client, g.model("summarize.model"), genai.Text(prompt))
}
