// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package scribe_routers

import (
	"github.com/gin-gonic/gin"
	sessionApi "github.com/rapidaai/scribe/api/scribe-api/api/session"
	internal_capture "github.com/rapidaai/scribe/api/scribe-api/internal/audio/capture"
	internal_display "github.com/rapidaai/scribe/api/scribe-api/internal/display"
	internal_session "github.com/rapidaai/scribe/api/scribe-api/internal/session"
	"github.com/rapidaai/scribe/config"
	"github.com/rapidaai/scribe/pkg/commons"
)

func SessionRoutes(
	cfg *config.AppConfig,
	engine *gin.Engine,
	logger commons.Logger,
	controller *internal_session.SessionController,
	hub *internal_display.Hub,
	device *internal_capture.Device,
) {
	logger.Info("Session routes added to engine.")
	apiv1 := engine.Group("/v1/session")
	sApi := sessionApi.New(cfg, logger, controller, hub, device)
	{
		apiv1.POST("/start", sApi.StartSession)
		apiv1.POST("/stop", sApi.StopSession)
		apiv1.GET("/status", sApi.SessionStatus)
		apiv1.GET("/events", sApi.Events)
		apiv1.GET("/audio", sApi.Audio)
	}
}
