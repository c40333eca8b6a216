// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_availability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
)

const (
	Available    = "available"
	Downloadable = "downloadable"
	Downloading  = "downloading"
	Unavailable  = "unavailable"
)

type probeResponse struct {
	Availability string `json:"availability"`
}

// httpAvailability asks a health endpoint whether the models can serve.
// Any 2xx without an availability field counts as available.
type httpAvailability struct {
	logger commons.Logger
	client *resty.Client
	url    string
}

func NewHTTPAvailability(logger commons.Logger, url string, timeout time.Duration) internal_type.ModelAvailability {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &httpAvailability{
		logger: logger,
		client: resty.New().SetTimeout(timeout).SetHeader("Accept", "application/json"),
		url:    url,
	}
}

func (h *httpAvailability) Available(ctx context.Context) (bool, error) {
	var out probeResponse
	resp, err := h.client.R().SetContext(ctx).SetResult(&out).Get(h.url)
	if err != nil {
		h.logger.Warnf("availability: probe %s failed: %v", h.url, err)
		return false, err
	}
	if !resp.IsSuccess() {
		return false, fmt.Errorf("availability probe returned %d", resp.StatusCode())
	}
	switch strings.ToLower(strings.TrimSpace(out.Availability)) {
	case "", Available:
		return true, nil
	default:
		h.logger.Infof("availability: models report %q", out.Availability)
		return false, nil
	}
}

type staticAvailability bool

// NewStaticAvailability is used when no probe is configured.
func NewStaticAvailability(available bool) internal_type.ModelAvailability {
	return staticAvailability(available)
}

func (s staticAvailability) Available(context.Context) (bool, error) {
	return bool(s), nil
}
