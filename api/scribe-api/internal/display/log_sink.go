// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_display

import (
	"context"

	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
)

// LogSink writes every rendered state to the application log.
type LogSink struct {
	logger commons.Logger
}

func NewLogSink(logger commons.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Render(_ context.Context, state internal_type.RenderState) {
	switch state.Kind {
	case internal_type.RenderError:
		s.logger.Warnw("summary", "kind", state.Kind, "generation", state.Generation, "segments", state.BasedOnLogLength, "message", state.Message)
	case internal_type.RenderFinal:
		s.logger.Infow("summary", "kind", state.Kind, "generation", state.Generation, "segments", state.BasedOnLogLength, "text", state.Text)
	default:
		s.logger.Debugw("summary", "kind", state.Kind, "generation", state.Generation, "segments", state.BasedOnLogLength)
	}
}

func (s *LogSink) RenderSegment(_ context.Context, e internal_type.SegmentEvent) {
	if e.Status == internal_type.SegmentStatusFailed {
		s.logger.Warnw("segment", "index", e.Index, "status", e.Status, "message", e.Message)
		return
	}
	s.logger.Infow("segment", "index", e.Index, "status", e.Status, "message", e.Message)
}

func (s *LogSink) RenderTimer(_ context.Context, e internal_type.TimerEvent) {
	if e.Warning {
		s.logger.Debugw("timer", "elapsed", e.ElapsedSeconds, "remaining", e.RemainingSeconds)
	}
}

func (s *LogSink) RenderSession(_ context.Context, e internal_type.SessionEvent) {
	s.logger.Infow("session", "id", e.SessionID, "state", e.State, "message", e.Message)
}
