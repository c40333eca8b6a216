// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package health_check_api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/config"
	"github.com/rapidaai/scribe/pkg/commons"
)

type HealthCheckApi struct {
	cfg          *config.AppConfig
	logger       commons.Logger
	availability internal_type.ModelAvailability
}

func New(cfg *config.AppConfig, logger commons.Logger, availability internal_type.ModelAvailability) *HealthCheckApi {
	return &HealthCheckApi{cfg: cfg, logger: logger, availability: availability}
}

func (h *HealthCheckApi) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"healthy": true})
}

// Readiness reports whether the speech and language models can be reached.
func (h *HealthCheckApi) Readiness(c *gin.Context) {
	ok, err := h.availability.Available(c.Request.Context())
	if err != nil || !ok {
		h.logger.Warnf("health: model not ready: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": true})
}
