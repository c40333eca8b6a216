// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_display

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/gorilla/websocket"
	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) commons.Logger {
	t.Helper()
	logger, err := commons.NewApplicationLogger(commons.Level("error"))
	require.NoError(t, err)
	return logger
}

func TestRedisSink_PublishesEvents(t *testing.T) {
	client, mock := redismock.NewClientMock()
	sink := NewRedisSink(newTestLogger(t), client, "scribe:session")
	ctx := context.Background()

	mock.Regexp().ExpectPublish("scribe:session", `"type":"summary".*"kind":"final".*"text":"done"`).SetVal(1)
	mock.Regexp().ExpectPublish("scribe:session", `"type":"segment".*"index":2`).SetVal(1)
	mock.Regexp().ExpectPublish("scribe:session", `"type":"session".*"state":"idle"`).SetErr(errors.New("connection refused"))

	sink.Render(ctx, internal_type.RenderState{Kind: internal_type.RenderFinal, Text: "done"})
	sink.RenderSegment(ctx, internal_type.SegmentEvent{Index: 2, Status: internal_type.SegmentStatusRecorded})
	sink.RenderSession(ctx, internal_type.SessionEvent{State: internal_type.SessionStateIdle})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSink_IsNotATimerSink(t *testing.T) {
	client, _ := redismock.NewClientMock()
	var sink internal_type.DisplaySink = NewRedisSink(newTestLogger(t), client, "c")
	_, ok := sink.(internal_type.TimerSink)
	assert.False(t, ok)
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &out))
	return out
}

func TestHub_ReplaysLatestAndBroadcasts(t *testing.T) {
	hub := NewHub(newTestLogger(t))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r)
	}))
	defer server.Close()

	ctx := context.Background()
	hub.RenderSession(ctx, internal_type.SessionEvent{SessionID: "s1", State: internal_type.SessionStateRecording})
	hub.Render(ctx, internal_type.RenderState{Kind: internal_type.RenderGenerating})
	hub.Render(ctx, internal_type.RenderState{Kind: internal_type.RenderFinal, Text: "summary"})

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readEvent(t, conn)
	assert.Equal(t, "session", first["type"])
	second := readEvent(t, conn)
	assert.Equal(t, "summary", second["type"])
	assert.Equal(t, "final", second["data"].(map[string]interface{})["kind"])

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	hub.RenderTimer(ctx, internal_type.TimerEvent{ElapsedSeconds: 3, RemainingSeconds: 57, MaxSeconds: 60, Warning: true})
	hub.RenderDelta(0, "partial")

	timer := readEvent(t, conn)
	assert.Equal(t, "timer", timer["type"])
	assert.Equal(t, true, timer["data"].(map[string]interface{})["warning"])
	delta := readEvent(t, conn)
	assert.Equal(t, "transcript_delta", delta["type"])

	conn.Close()
	require.Eventually(t, func() bool { return hub.Subscribers() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestHub_RejectsPlainHTTP(t *testing.T) {
	hub := NewHub(newTestLogger(t))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	assert.Error(t, hub.Serve(rec, req))
}

func TestLogSink_ImplementsAllChannels(t *testing.T) {
	sink := NewLogSink(newTestLogger(t))
	sinks := internal_type.DisplaySinks{sink}
	ctx := context.Background()
	sinks.Render(ctx, internal_type.RenderState{Kind: internal_type.RenderError, Message: "boom"})
	sinks.RenderSegment(ctx, internal_type.SegmentEvent{Status: internal_type.SegmentStatusFailed})
	sinks.RenderTimer(ctx, internal_type.TimerEvent{Warning: true})
	sinks.RenderSession(ctx, internal_type.SessionEvent{State: internal_type.SessionStateIdle})
}
