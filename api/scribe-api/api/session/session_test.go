// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package scribe_session_api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	internal_capture "github.com/rapidaai/scribe/api/scribe-api/internal/audio/capture"
	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	startErr error
	started  *internal_type.SessionParameters
	stops    int
	waitErr  error
	status   internal_type.SessionStatus
}

func (f *fakeController) StartAsync(_ context.Context, p internal_type.SessionParameters) (string, error) {
	if f.startErr != nil {
		return "", f.startErr
	}
	f.started = &p
	f.status.State = internal_type.SessionStateRecording
	f.status.SessionID = "s-1"
	return "s-1", nil
}

func (f *fakeController) Stop() { f.stops++ }

func (f *fakeController) Wait(context.Context) error {
	if f.waitErr == nil {
		f.status.State = internal_type.SessionStateIdle
	}
	return f.waitErr
}

func (f *fakeController) Status() internal_type.SessionStatus { return f.status }

type fakeEvents struct{ served int }

func (f *fakeEvents) Serve(w http.ResponseWriter, _ *http.Request) error {
	f.served++
	w.WriteHeader(http.StatusTeapot)
	return nil
}

func setup(t *testing.T, c *fakeController) (*gin.Engine, *fakeEvents, *internal_capture.Device) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, err := commons.NewApplicationLogger(commons.Level("error"))
	require.NoError(t, err)
	device, err := internal_capture.NewDevice(logger, internal_capture.Config{SampleRate: 16000, Channels: 1})
	require.NoError(t, err)
	events := &fakeEvents{}
	api := New(nil, logger, c, events, device)

	engine := gin.New()
	engine.POST("/v1/session/start", api.StartSession)
	engine.POST("/v1/session/stop", api.StopSession)
	engine.GET("/v1/session/status", api.SessionStatus)
	engine.GET("/v1/session/events", api.Events)
	engine.GET("/v1/session/audio", api.Audio)
	return engine, events, device
}

func do(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestStartSession(t *testing.T) {
	c := &fakeController{}
	engine, _, _ := setup(t, c)

	w := do(engine, http.MethodPost, "/v1/session/start", `{"inputLanguage":"ja","totalDurationSeconds":60,"segmentDurationSeconds":30}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	require.NotNil(t, c.started)
	assert.Equal(t, "ja", c.started.InputLanguage)
	assert.Equal(t, 60, c.started.TotalDurationSeconds)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "s-1", body["sessionId"])
}

func TestStartSession_EmptyBodyUsesDefaults(t *testing.T) {
	c := &fakeController{}
	engine, _, _ := setup(t, c)
	w := do(engine, http.MethodPost, "/v1/session/start", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, internal_type.SessionParameters{}, *c.started)
}

func TestStartSession_ErrorMapping(t *testing.T) {
	cases := map[error]int{
		internal_type.ErrInvalidParameters: http.StatusBadRequest,
		internal_type.ErrAlreadyActive:     http.StatusConflict,
		internal_type.ErrStartCancelled:    http.StatusConflict,
		internal_type.ErrDeviceUnavailable: http.StatusServiceUnavailable,
		internal_type.ErrModelUnavailable:  http.StatusServiceUnavailable,
		assert.AnError:                     http.StatusInternalServerError,
	}
	for err, code := range cases {
		engine, _, _ := setup(t, &fakeController{startErr: err})
		w := do(engine, http.MethodPost, "/v1/session/start", "")
		assert.Equal(t, code, w.Code, err.Error())
	}
}

func TestStartSession_BadJSON(t *testing.T) {
	engine, _, _ := setup(t, &fakeController{})
	w := do(engine, http.MethodPost, "/v1/session/start", `{"totalDurationSeconds":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStopSession(t *testing.T) {
	c := &fakeController{status: internal_type.SessionStatus{State: internal_type.SessionStateRecording}}
	engine, _, _ := setup(t, c)

	w := do(engine, http.MethodPost, "/v1/session/stop?wait=true", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, c.stops)
	assert.Contains(t, w.Body.String(), `"state":"idle"`)

	c.waitErr = context.DeadlineExceeded
	w = do(engine, http.MethodPost, "/v1/session/stop?wait=true", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 2, c.stops)
}

func TestSessionStatus(t *testing.T) {
	c := &fakeController{status: internal_type.SessionStatus{State: internal_type.SessionStateIdle, PlannedSegments: 4}}
	engine, _, _ := setup(t, c)
	w := do(engine, http.MethodGet, "/v1/session/status", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var status internal_type.SessionStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, 4, status.PlannedSegments)
}

func TestEvents_DelegatesToStream(t *testing.T) {
	engine, events, _ := setup(t, &fakeController{})
	w := do(engine, http.MethodGet, "/v1/session/events", "")
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, 1, events.served)
}

func TestAudio_SingleSource(t *testing.T) {
	engine, _, device := setup(t, &fakeController{})
	srv := httptest.NewServer(engine)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/session/audio"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, make([]byte, 320)))

	_, err = device.Attach()
	assert.Error(t, err)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	assert.Eventually(t, func() bool {
		src, err := device.Attach()
		if err != nil {
			return false
		}
		src.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)
}
