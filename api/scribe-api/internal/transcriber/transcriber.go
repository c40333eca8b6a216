// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_transcriber

import (
	"context"
	"fmt"
	"time"

	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
)

// SegmentLog receives the outcome of every dispatched segment.
type SegmentLog interface {
	OnSegmentComplete(ctx context.Context, index int, text string) error
	Placeholder(index int) error
}

type DeltaFunc func(index int, partial string)

type TranscriptionWorker struct {
	logger  commons.Logger
	service internal_type.SpeechToTextService
	sinks   internal_type.DisplaySinks
	onDelta DeltaFunc
}

type Option func(*TranscriptionWorker)

// OnDelta registers a tap that sees the accumulated text after every delta.
func OnDelta(fn DeltaFunc) Option {
	return func(w *TranscriptionWorker) { w.onDelta = fn }
}

func NewTranscriptionWorker(
	logger commons.Logger,
	service internal_type.SpeechToTextService,
	sinks internal_type.DisplaySinks,
	opts ...Option,
) *TranscriptionWorker {
	w := &TranscriptionWorker{logger: logger, service: service, sinks: sinks}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Transcribe folds the provider stream for one segment into its final text.
func (w *TranscriptionWorker) Transcribe(ctx context.Context, segment internal_type.Segment, inputLanguage, outputLanguage string) (string, error) {
	if segment.Audio.Empty() {
		return "", fmt.Errorf("%w: segment %d has no audio", internal_type.ErrTranscriptionFailed, segment.Index)
	}
	var tap func(string)
	if w.onDelta != nil {
		tap = func(partial string) { w.onDelta(segment.Index, partial) }
	}
	text, err := internal_type.Fold(w.service.TranscribeStream(ctx, segment.Audio, inputLanguage, outputLanguage), tap)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", internal_type.ErrTranscriptionFailed, w.service.Name(), err)
	}
	return text, nil
}

// Process is the background job for a dispatched segment. Failures end up as
// an empty log entry and never reach the caller.
func (w *TranscriptionWorker) Process(ctx context.Context, segment internal_type.Segment, total int, inputLanguage, outputLanguage string, log SegmentLog) {
	event := internal_type.SegmentEvent{
		Index:        segment.Index,
		Total:        total,
		StartSeconds: segment.StartOffsetSeconds,
		EndSeconds:   segment.StartOffsetSeconds + int(segment.Audio.Duration.Round(time.Second)/time.Second),
	}

	event.Status = internal_type.SegmentStatusTranscribing
	event.Message = fmt.Sprintf("segment %d/%d: transcription started", segment.Index+1, total)
	w.sinks.RenderSegment(ctx, event)

	started := time.Now()
	text, err := w.Transcribe(ctx, segment, inputLanguage, outputLanguage)
	if err != nil {
		w.logger.Errorf("transcriber: segment %d failed after %s: %v", segment.Index, time.Since(started), err)
		event.Status = internal_type.SegmentStatusFailed
		event.Message = fmt.Sprintf("segment %d/%d: %v", segment.Index+1, total, err)
		w.sinks.RenderSegment(ctx, event)
		if perr := log.Placeholder(segment.Index); perr != nil {
			w.logger.Errorf("transcriber: unable to write placeholder for segment %d: %v", segment.Index, perr)
		}
		return
	}

	w.logger.Debugf("transcriber: segment %d transcribed by %s in %s (%d chars)", segment.Index, w.service.Name(), time.Since(started), len(text))
	event.Status = internal_type.SegmentStatusTranscribed
	event.Text = text
	event.Message = fmt.Sprintf("segment %d/%d: saved", segment.Index+1, total)
	w.sinks.RenderSegment(ctx, event)

	if err := log.OnSegmentComplete(ctx, segment.Index, text); err != nil {
		w.logger.Errorf("transcriber: unable to record segment %d: %v", segment.Index, err)
	}
}
