// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_transformer_anthropic

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
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

func TestNewAnthropicOption_MissingKey(t *testing.T) {
	_, err := NewAnthropicOption(newTestLogger(t), utils.Option{"project_id": "p"}, utils.Option{})
	assert.ErrorContains(t, err, "illegal vault config")
}

func TestMessageParams(t *testing.T) {
	opt, err := NewAnthropicOption(newTestLogger(t), utils.Option{"key": "k"}, utils.Option{
		"summarize.model":      "claude-sonnet-4-5",
		"summarize.max_tokens": "512",
	})
	require.NoError(t, err)

	params := opt.MessageParams("summarize this")
	assert.Equal(t, "claude-sonnet-4-5", string(params.Model))
	assert.Equal(t, int64(512), params.MaxTokens)
	require.Len(t, params.Messages, 1)

	params = opt.MessageParams("x")
	assert.Equal(t, "claude-sonnet-4-5", string(params.Model))

	def, _ := NewAnthropicOption(newTestLogger(t), utils.Option{"key": "k"}, utils.Option{})
	assert.Equal(t, DefaultModel, string(def.MessageParams("x").Model))
	assert.Equal(t, int64(DefaultMaxTokens), def.MessageParams("x").MaxTokens)
}

func TestSummarizeStream_TextDeltas(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		for _, text := range []string{"・要点1", "\n・要点2"} {
			fmt.Fprintf(w, "event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":%q}}\n\n", text)
		}
		fmt.Fprint(w, "event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n")
	}))
	defer server.Close()

	svc, err := NewAnthropicSummarizer(newTestLogger(t), utils.Option{"key": "k"}, utils.Option{"base_url": server.URL})
	require.NoError(t, err)
	assert.Equal(t, "anthropic-summarizer", svc.Name())

	text, err := internal_type.Fold(svc.SummarizeStream(context.Background(), "prompt"), nil)
	require.NoError(t, err)
	assert.Equal(t, "・要点1\n・要点2", text)
}
