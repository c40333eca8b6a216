// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_display

import (
	"context"

	"github.com/redis/go-redis/v9"
	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
)

// RedisSink publishes every event as JSON on one pub/sub channel.
type RedisSink struct {
	logger  commons.Logger
	client  *redis.Client
	channel string
}

func NewRedisSink(logger commons.Logger, client *redis.Client, channel string) *RedisSink {
	return &RedisSink{logger: logger, client: client, channel: channel}
}

func (s *RedisSink) publish(ctx context.Context, event Event) {
	payload, err := event.Marshal()
	if err != nil {
		s.logger.Errorf("redis-sink: unable to marshal %s event: %v", event.Type, err)
		return
	}
	if err := s.client.Publish(ctx, s.channel, string(payload)).Err(); err != nil {
		s.logger.Warnf("redis-sink: publish to %s failed: %v", s.channel, err)
	}
}

func (s *RedisSink) Render(ctx context.Context, state internal_type.RenderState) {
	s.publish(ctx, NewEvent(EventSummary, state))
}

func (s *RedisSink) RenderSegment(ctx context.Context, e internal_type.SegmentEvent) {
	s.publish(ctx, NewEvent(EventSegment, e))
}

func (s *RedisSink) RenderSession(ctx context.Context, e internal_type.SessionEvent) {
	s.publish(ctx, NewEvent(EventSession, e))
}
