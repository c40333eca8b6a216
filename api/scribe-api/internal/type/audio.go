// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_type

import (
	"context"
	"time"
)

// StreamHandle identifies an acquired capture stream.
type StreamHandle interface {
	ID() string
}

// AudioBuffer is one finite recording.
type AudioBuffer struct {
	Data       []byte
	MimeType   string
	SampleRate int
	Channels   int
	Duration   time.Duration
}

func (b AudioBuffer) Empty() bool {
	return len(b.Data) == 0
}

// AudioCaptureService owns the single input device. Release is idempotent and
// unblocks any CaptureSegment in flight, which then returns what it has.
type AudioCaptureService interface {
	Acquire(ctx context.Context) (StreamHandle, error)
	CaptureSegment(ctx context.Context, handle StreamHandle, duration time.Duration) (AudioBuffer, error)
	Release(handle StreamHandle) error
}

// SegmentStatus tracks a segment through the background pipeline.
type SegmentStatus string

const (
	SegmentStatusRecorded     SegmentStatus = "recorded"
	SegmentStatusTranscribing SegmentStatus = "transcribing"
	SegmentStatusTranscribed  SegmentStatus = "transcribed"
	SegmentStatusFailed       SegmentStatus = "failed"
)

// Segment is immutable once recorded.
type Segment struct {
	Index              int
	StartOffsetSeconds int
	Audio              AudioBuffer
}
