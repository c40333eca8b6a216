// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package scribe_routers

import (
	"github.com/gin-gonic/gin"
	healthCheckApi "github.com/rapidaai/scribe/api/scribe-api/api/health"
	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/config"
	"github.com/rapidaai/scribe/pkg/commons"
)

func HealthCheckRoutes(cfg *config.AppConfig, engine *gin.Engine, logger commons.Logger, availability internal_type.ModelAvailability) {
	logger.Info("Internal HealthCheckRoutes added to engine.")
	apiv1 := engine.Group("")
	hcApi := healthCheckApi.New(cfg, logger, availability)
	{
		apiv1.GET("/readiness", hcApi.Readiness)
		apiv1.GET("/healthz", hcApi.Healthz)
	}
}
