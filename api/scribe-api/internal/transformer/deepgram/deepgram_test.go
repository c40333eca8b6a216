// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_transformer_deepgram

import (
	"testing"

	"github.com/rapidaai/scribe/pkg/commons"
	"github.com/rapidaai/scribe/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) commons.Logger {
	t.Helper()
	logger, err := commons.NewApplicationLogger(commons.Level("error"))
	require.NoError(t, err)
	return logger
}

func TestNewDeepgramOption_ValidCredentials(t *testing.T) {
	opt, err := NewDeepgramOption(newTestLogger(t), utils.Option{"key": "test-api-key"}, utils.Option{})
	assert.NoError(t, err)
	assert.NotNil(t, opt)
	assert.Equal(t, "test-api-key", opt.GetKey())
}

func TestNewDeepgramOption_MissingKey(t *testing.T) {
	opt, err := NewDeepgramOption(newTestLogger(t), utils.Option{"other": "value"}, utils.Option{})
	assert.Error(t, err)
	assert.Nil(t, opt)
	assert.Contains(t, err.Error(), "illegal vault config")
}

func TestNewDeepgramOption_EmptyKey(t *testing.T) {
	opt, err := NewDeepgramOption(newTestLogger(t), utils.Option{"key": ""}, utils.Option{})
	assert.Error(t, err)
	assert.Nil(t, opt)
}

func TestPreRecordedOptions_Defaults(t *testing.T) {
	opt, _ := NewDeepgramOption(newTestLogger(t), utils.Option{"key": "k"}, utils.Option{})
	pre := opt.PreRecordedOptions("")

	assert.Equal(t, DefaultModel, pre.Model)
	assert.Equal(t, DefaultLanguage, pre.Language)
	assert.True(t, pre.SmartFormat)
	assert.True(t, pre.Punctuate)
	assert.False(t, pre.Diarize)
}

func TestPreRecordedOptions_WithOverrides(t *testing.T) {
	opts := utils.Option{
		"listen.language":     "fr-FR",
		"listen.smart_format": false,
		"listen.diarize":      "true",
		"listen.model":        "nova-3",
	}
	opt, _ := NewDeepgramOption(newTestLogger(t), utils.Option{"key": "k"}, opts)

	pre := opt.PreRecordedOptions("")
	assert.Equal(t, "fr-FR", pre.Language)
	assert.False(t, pre.SmartFormat)
	assert.True(t, pre.Diarize)
	assert.Equal(t, "nova-3", pre.Model)

	assert.Equal(t, "ja", opt.PreRecordedOptions("ja").Language)
}

func TestNewDeepgramSpeechToText(t *testing.T) {
	svc, err := NewDeepgramSpeechToText(newTestLogger(t), utils.Option{"key": "k"}, utils.Option{})
	require.NoError(t, err)
	assert.Equal(t, "deepgram-speech-to-text", svc.Name())

	_, err = NewDeepgramSpeechToText(newTestLogger(t), utils.Option{}, utils.Option{})
	assert.Error(t, err)
}
