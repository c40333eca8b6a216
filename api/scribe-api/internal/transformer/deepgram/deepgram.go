// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_transformer_deepgram

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	api "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"
	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
	"github.com/rapidaai/scribe/pkg/utils"
)

const (
	DefaultModel    = "nova-2"
	DefaultLanguage = "en-US"
)

type deepgramOption struct {
	logger  commons.Logger
	key     string
	mdlOpts utils.Option
}

func NewDeepgramOption(logger commons.Logger, credential utils.Option, opts utils.Option) (*deepgramOption, error) {
	key, err := credential.GetString("key")
	if err != nil {
		return nil, fmt.Errorf("illegal vault config: %v", err)
	}
	return &deepgramOption{logger: logger, key: key, mdlOpts: opts}, nil
}

func (dO *deepgramOption) GetKey() string {
	return dO.key
}

// PreRecordedOptions builds the request options for one segment. The
// session input language wins over listen.language.
func (dO *deepgramOption) PreRecordedOptions(inputLanguage string) *interfaces.PreRecordedTranscriptionOptions {
	opts := &interfaces.PreRecordedTranscriptionOptions{
		Model:       DefaultModel,
		Language:    DefaultLanguage,
		SmartFormat: true,
		Punctuate:   true,
	}
	if model, err := dO.mdlOpts.GetString("listen.model"); err == nil {
		opts.Model = model
	}
	if language, err := dO.mdlOpts.GetString("listen.language"); err == nil {
		opts.Language = language
	}
	if inputLanguage != "" {
		opts.Language = inputLanguage
	}
	if v, err := dO.mdlOpts.GetBool("listen.smart_format"); err == nil {
		opts.SmartFormat = v
	}
	if v, err := dO.mdlOpts.GetBool("listen.diarize"); err == nil {
		opts.Diarize = v
	}
	return opts
}

type deepgramSpeechToText struct {
	*deepgramOption
	logger commons.Logger
	client *api.Client
}

func NewDeepgramSpeechToText(logger commons.Logger, credential utils.Option, opts utils.Option) (internal_type.SpeechToTextService, error) {
	dgOpts, err := NewDeepgramOption(logger, credential, opts)
	if err != nil {
		logger.Errorf("deepgram-stt: initializing deepgram failed %+v", err)
		return nil, err
	}
	c := client.NewREST(dgOpts.GetKey(), &interfaces.ClientOptions{})
	return &deepgramSpeechToText{
		deepgramOption: dgOpts,
		logger:         logger,
		client:         api.New(c),
	}, nil
}

func (*deepgramSpeechToText) Name() string {
	return "deepgram-speech-to-text"
}

// TranscribeStream sends the whole segment as one pre-recorded request.
// Deepgram does not translate, outputLanguage is ignored.
func (dg *deepgramSpeechToText) TranscribeStream(ctx context.Context, audio internal_type.AudioBuffer, inputLanguage, outputLanguage string) internal_type.TextStream {
	return func(yield func(string, error) bool) {
		if outputLanguage != "" && outputLanguage != inputLanguage {
			dg.logger.Warnf("deepgram-stt: translation to %s not supported, returning %s transcript", outputLanguage, inputLanguage)
		}
		res, err := dg.client.FromStream(ctx, bytes.NewReader(audio.Data), dg.PreRecordedOptions(inputLanguage))
		if err != nil {
			yield("", fmt.Errorf("deepgram transcription: %w", err))
			return
		}
		if res == nil || res.Results == nil {
			yield("", fmt.Errorf("deepgram transcription: empty response"))
			return
		}
		for _, channel := range res.Results.Channels {
			if len(channel.Alternatives) == 0 {
				continue
			}
			if !yield(strings.TrimSpace(channel.Alternatives[0].Transcript), nil) {
				return
			}
			break
		}
	}
}
