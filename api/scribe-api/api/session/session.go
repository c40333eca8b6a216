// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package scribe_session_api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	internal_capture "github.com/rapidaai/scribe/api/scribe-api/internal/audio/capture"
	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/config"
	"github.com/rapidaai/scribe/pkg/commons"
)

var audioUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type sessionController interface {
	StartAsync(ctx context.Context, params internal_type.SessionParameters) (string, error)
	Stop()
	Wait(ctx context.Context) error
	Status() internal_type.SessionStatus
}

type eventStream interface {
	Serve(w http.ResponseWriter, r *http.Request) error
}

type audioInput interface {
	Attach() (*internal_capture.Source, error)
}

type SessionApi struct {
	cfg        *config.AppConfig
	logger     commons.Logger
	controller sessionController
	events     eventStream
	audio      audioInput
	stopWait   time.Duration
}

func New(cfg *config.AppConfig, logger commons.Logger, controller sessionController, events eventStream, audio audioInput) *SessionApi {
	return &SessionApi{
		cfg:        cfg,
		logger:     logger,
		controller: controller,
		events:     events,
		audio:      audio,
		stopWait:   2 * time.Minute,
	}
}

// StartSession
//
// @Router /v1/session/start [post]
// @Success 202 {object} gin.H
// @Failure 400,409,503 {object} gin.H
func (s *SessionApi) StartSession(c *gin.Context) {
	var params internal_type.SessionParameters
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	id, err := s.controller.StartAsync(c.Request.Context(), params)
	if err != nil {
		s.logger.Warnf("session api: start rejected: %v", err)
		c.JSON(statusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"sessionId": id, "status": s.controller.Status()})
}

// StopSession stops capture. With ?wait=true it blocks until queued
// segments are transcribed.
//
// @Router /v1/session/stop [post]
func (s *SessionApi) StopSession(c *gin.Context) {
	s.controller.Stop()
	if c.Query("wait") == "true" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.stopWait)
		defer cancel()
		if err := s.controller.Wait(ctx); err != nil {
			c.JSON(http.StatusAccepted, gin.H{"status": s.controller.Status(), "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": s.controller.Status()})
}

// @Router /v1/session/status [get]
func (s *SessionApi) SessionStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller.Status())
}

// Events streams display events over a websocket.
//
// @Router /v1/session/events [get]
func (s *SessionApi) Events(c *gin.Context) {
	if err := s.events.Serve(c.Writer, c.Request); err != nil {
		s.logger.Warnf("session api: events upgrade failed: %v", err)
	}
}

// Audio accepts binary PCM frames in the configured audio format and feeds
// them to the capture device. Only one audio source can be connected.
//
// @Router /v1/session/audio [get]
func (s *SessionApi) Audio(c *gin.Context) {
	source, err := s.audio.Attach()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	defer source.Close()

	conn, err := audioUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Errorf("session api: audio upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	s.logger.Infof("session api: audio source connected from %s", c.ClientIP())
	dropped := 0
	for {
		kind, frame, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !errors.Is(err, io.EOF) {
				s.logger.Warnf("session api: audio source read failed: %v", err)
			}
			break
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		if !source.Write(frame) {
			dropped++
		}
	}
	s.logger.Infof("session api: audio source disconnected, %d frames dropped", dropped)
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, internal_type.ErrInvalidParameters):
		return http.StatusBadRequest
	case errors.Is(err, internal_type.ErrAlreadyActive),
		errors.Is(err, internal_type.ErrStartCancelled):
		return http.StatusConflict
	case errors.Is(err, internal_type.ErrDeviceUnavailable),
		errors.Is(err, internal_type.ErrStreamUnavailable),
		errors.Is(err, internal_type.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
