// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_transformer_google

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv2"
	"cloud.google.com/go/speech/apiv2/speechpb"
	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
	"github.com/rapidaai/scribe/pkg/utils"
	"google.golang.org/api/option"
)

const (
	DefaultLanguageCode = "en-US"
	DefaultModel        = "long"
)

type googleOption struct {
	logger        commons.Logger
	clientOptions []option.ClientOption
	mdlOpts       utils.Option
	projectId     string
}

func NewGoogleOption(logger commons.Logger, credential utils.Option, opts utils.Option) (*googleOption, error) {
	co := make([]option.ClientOption, 0)
	if key, err := credential.GetString("key"); err == nil {
		co = append(co, option.WithAPIKey(key))
	}
	projectID, _ := credential.GetString("project_id")
	if projectID != "" {
		co = append(co, option.WithQuotaProject(projectID))
	}
	if serviceCrd, err := credential.GetString("service_account_key"); err == nil {
		co = append(co, option.WithCredentialsJSON([]byte(serviceCrd)))
	}
	if projectID == "" {
		return nil, fmt.Errorf("illegal vault config: project_id is required for recognizers")
	}
	return &googleOption{
		logger:        logger,
		mdlOpts:       opts,
		clientOptions: co,
		projectId:     projectID,
	}, nil
}

func (gO *googleOption) GetClientOptions() []option.ClientOption {
	return gO.clientOptions
}

// RecognitionConfig describes one WAV segment. The session input language
// replaces listen.language when set.
func (gog *googleOption) RecognitionConfig(inputLanguage string) *speechpb.RecognitionConfig {
	cfg := &speechpb.RecognitionConfig{
		DecodingConfig: &speechpb.RecognitionConfig_AutoDecodingConfig{
			AutoDecodingConfig: &speechpb.AutoDetectDecodingConfig{},
		},
		Features: &speechpb.RecognitionFeatures{
			EnableAutomaticPunctuation: true,
		},
		LanguageCodes: []string{DefaultLanguageCode},
		Model:         DefaultModel,
	}

	if language, err := gog.mdlOpts.GetString("listen.language"); err == nil {
		codes := []string{}
		for _, code := range strings.Split(language, commons.SEPARATOR) {
			if code = strings.TrimSpace(code); code != "" {
				codes = append(codes, code)
			}
		}
		cfg.LanguageCodes = codes
	}
	if inputLanguage != "" {
		cfg.LanguageCodes = []string{inputLanguage}
	}
	if model, err := gog.mdlOpts.GetString("listen.model"); err == nil {
		cfg.Model = model
	}
	return cfg
}

func (gog *googleOption) GetRecognizer() string {
	if region, err := gog.mdlOpts.GetString("listen.region"); err == nil {
		if region != "global" {
			return fmt.Sprintf("projects/%s/locations/%s/recognizers/_", gog.projectId, region)
		}
	}
	return fmt.Sprintf("projects/%s/locations/global/recognizers/_", gog.projectId)
}

func (gog *googleOption) GetSpeechToTextClientOptions() []option.ClientOption {
	if region, err := gog.mdlOpts.GetString("listen.region"); err == nil {
		if region != "global" {
			return append(gog.clientOptions, option.WithEndpoint(fmt.Sprintf("%s-speech.googleapis.com:443", region)))
		}
	}
	return gog.clientOptions
}

type googleSpeechToText struct {
	*googleOption
	logger commons.Logger
	client *speech.Client
}

func NewGoogleSpeechToText(ctx context.Context, logger commons.Logger, credential utils.Option, opts utils.Option) (internal_type.SpeechToTextService, error) {
	gOpts, err := NewGoogleOption(logger, credential, opts)
	if err != nil {
		logger.Errorf("google-stt: initializing google failed %+v", err)
		return nil, err
	}
	client, err := speech.NewClient(ctx, gOpts.GetSpeechToTextClientOptions()...)
	if err != nil {
		logger.Errorf("google-stt: unable to create speech client %+v", err)
		return nil, err
	}
	return &googleSpeechToText{googleOption: gOpts, logger: logger, client: client}, nil
}

func (*googleSpeechToText) Name() string {
	return "google-speech-to-text"
}

// TranscribeStream yields one delta per recognition result, in audio order.
func (g *googleSpeechToText) TranscribeStream(ctx context.Context, audio internal_type.AudioBuffer, inputLanguage, outputLanguage string) internal_type.TextStream {
	return func(yield func(string, error) bool) {
		if outputLanguage != "" && outputLanguage != inputLanguage {
			g.logger.Warnf("google-stt: translation to %s not supported, returning %s transcript", outputLanguage, inputLanguage)
		}
		res, err := g.client.Recognize(ctx, &speechpb.RecognizeRequest{
			Recognizer:  g.GetRecognizer(),
			Config:      g.RecognitionConfig(inputLanguage),
			AudioSource: &speechpb.RecognizeRequest_Content{Content: audio.Data},
		})
		if err != nil {
			yield("", fmt.Errorf("google recognize: %w", err))
			return
		}
		for _, result := range res.GetResults() {
			alternatives := result.GetAlternatives()
			if len(alternatives) == 0 || alternatives[0].GetTranscript() == "" {
				continue
			}
			if !yield(alternatives[0].GetTranscript(), nil) {
				return
			}
		}
	}
}
