// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_transformer_gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
	"github.com/rapidaai/scribe/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestLogger(t *testing.T) commons.Logger {
	t.Helper()
	logger, err := commons.NewApplicationLogger(commons.Level("error"))
	require.NoError(t, err)
	return logger
}

func TestNewGeminiOption(t *testing.T) {
	_, err := NewGeminiOption(newTestLogger(t), utils.Option{}, utils.Option{})
	assert.ErrorContains(t, err, "illegal vault config")

	opt, err := NewGeminiOption(newTestLogger(t), utils.Option{"key": "k"}, utils.Option{})
	require.NoError(t, err)
	cfg := opt.ClientConfig()
	assert.Equal(t, genai.BackendGeminiAPI, cfg.Backend)
	assert.Equal(t, "k", cfg.APIKey)

	opt, err = NewGeminiOption(newTestLogger(t), utils.Option{"project_id": "p"}, utils.Option{"listen.region": "asia-northeast1"})
	require.NoError(t, err)
	cfg = opt.ClientConfig()
	assert.Equal(t, genai.BackendVertexAI, cfg.Backend)
	assert.Equal(t, "p", cfg.Project)
	assert.Equal(t, "asia-northeast1", cfg.Location)
}

func TestTranscriptionPrompt(t *testing.T) {
	opt, _ := NewGeminiOption(newTestLogger(t), utils.Option{"key": "k"}, utils.Option{})
	assert.Equal(t, "Transcribe the audio. The speech is in ja. Return only the transcript.", opt.TranscriptionPrompt("ja", "ja"))
	assert.Equal(t, "Transcribe the audio. The speech is in ja. Write the transcript in en. Return only the transcript.", opt.TranscriptionPrompt("ja", "en"))

	opt, _ = NewGeminiOption(newTestLogger(t), utils.Option{"key": "k"}, utils.Option{"listen.prompt": "音声を文字起こしして。"})
	assert.True(t, strings.HasPrefix(opt.TranscriptionPrompt("", ""), "音声を文字起こしして。"))
}

func TestModelSelection(t *testing.T) {
	opt, _ := NewGeminiOption(newTestLogger(t), utils.Option{"key": "k"}, utils.Option{"summarize.model": "gemini-2.5-pro"})
	assert.Equal(t, "gemini-2.5-pro", opt.model("summarize.model"))
	assert.Equal(t, DefaultModel, opt.model("listen.model"))
}

func TestSummarizeStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, ":streamGenerateContent")
		w.Header().Set("Content-Type", "text/event-stream")
		for _, text := range []string{"first", " second"} {
			fmt.Fprintf(w, "data: {\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"text\":%q}]}}]}\n\n", text)
		}
	}))
	defer server.Close()

	svc, err := NewGeminiSummarizer(context.Background(), newTestLogger(t), utils.Option{"key": "k"}, utils.Option{"base_url": server.URL})
	require.NoError(t, err)
	text, err := internal_type.Fold(svc.SummarizeStream(context.Background(), "summarize"), nil)
	require.NoError(t, err)
	assert.Equal(t, "first second", text)
}
