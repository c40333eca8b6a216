// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_recorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
)

// SegmentRecorder turns the capture stream into one finite buffer per segment.
type SegmentRecorder struct {
	logger  commons.Logger
	capture internal_type.AudioCaptureService
}

func NewSegmentRecorder(logger commons.Logger, capture internal_type.AudioCaptureService) *SegmentRecorder {
	return &SegmentRecorder{logger: logger, capture: capture}
}

// Record blocks for at most duration. A released handle yields whatever was
// captured so far, possibly nothing.
func (r *SegmentRecorder) Record(ctx context.Context, handle internal_type.StreamHandle, duration time.Duration) (internal_type.AudioBuffer, error) {
	if handle == nil {
		return internal_type.AudioBuffer{}, fmt.Errorf("%w: no stream handle", internal_type.ErrStreamUnavailable)
	}
	buf, err := r.capture.CaptureSegment(ctx, handle, duration)
	if err == nil {
		return buf, nil
	}
	if !buf.Empty() {
		r.logger.Warnf("recorder: stream %s ended mid-segment, keeping %s of audio: %v", handle.ID(), buf.Duration, err)
		return buf, nil
	}
	if errors.Is(err, internal_type.ErrStreamUnavailable) {
		return internal_type.AudioBuffer{}, err
	}
	return internal_type.AudioBuffer{}, fmt.Errorf("%w: %v", internal_type.ErrStreamUnavailable, err)
}
