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

// RenderKind is the summary display state.
type RenderKind string

const (
	RenderEmpty      RenderKind = "empty"
	RenderGenerating RenderKind = "generating"
	RenderFinal      RenderKind = "final"
	RenderError      RenderKind = "error"
)

// SummarySnapshot is one immutable version of the cumulative summary.
type SummarySnapshot struct {
	Kind             RenderKind `json:"kind"`
	Text             string     `json:"text,omitempty"`
	Generation       uint64     `json:"generation"`
	BasedOnLogLength int        `json:"basedOnLogLength"`
	LogRevision      uint64     `json:"logRevision"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// RenderState is what a sink receives for every summary transition.
type RenderState struct {
	Kind             RenderKind `json:"kind"`
	Text             string     `json:"text,omitempty"`
	Message          string     `json:"message,omitempty"`
	Generation       uint64     `json:"generation"`
	BasedOnLogLength int        `json:"basedOnLogLength"`
}

// SegmentEvent is a progress line for one segment.
type SegmentEvent struct {
	Index        int           `json:"index"`
	Total        int           `json:"total"`
	StartSeconds int           `json:"startSeconds"`
	EndSeconds   int           `json:"endSeconds"`
	Status       SegmentStatus `json:"status"`
	Text         string        `json:"text,omitempty"`
	Message      string        `json:"message,omitempty"`
}

// TimerEvent is published on every timer tick.
type TimerEvent struct {
	ElapsedSeconds   int  `json:"elapsedSeconds"`
	RemainingSeconds int  `json:"remainingSeconds"`
	MaxSeconds       int  `json:"maxSeconds"`
	Warning          bool `json:"warning"`
}

// SessionEvent reports controller lifecycle transitions.
type SessionEvent struct {
	SessionID string       `json:"sessionId"`
	State     SessionState `json:"state"`
	Message   string       `json:"message,omitempty"`
}

// DisplaySink is a passive render target for the summary.
type DisplaySink interface {
	Render(ctx context.Context, state RenderState)
}

// SegmentSink is implemented by sinks that also show per segment progress.
type SegmentSink interface {
	RenderSegment(ctx context.Context, event SegmentEvent)
}

// TimerSink is implemented by sinks that show the remaining time.
type TimerSink interface {
	RenderTimer(ctx context.Context, event TimerEvent)
}

// SessionSink is implemented by sinks that show lifecycle transitions.
type SessionSink interface {
	RenderSession(ctx context.Context, event SessionEvent)
}

// DisplaySinks fans every call out to all sinks in registration order.
type DisplaySinks []DisplaySink

func (s DisplaySinks) Render(ctx context.Context, state RenderState) {
	for _, sink := range s {
		sink.Render(ctx, state)
	}
}

func (s DisplaySinks) RenderSegment(ctx context.Context, event SegmentEvent) {
	for _, sink := range s {
		if ss, ok := sink.(SegmentSink); ok {
			ss.RenderSegment(ctx, event)
		}
	}
}

func (s DisplaySinks) RenderTimer(ctx context.Context, event TimerEvent) {
	for _, sink := range s {
		if ts, ok := sink.(TimerSink); ok {
			ts.RenderTimer(ctx, event)
		}
	}
}

func (s DisplaySinks) RenderSession(ctx context.Context, event SessionEvent) {
	for _, sink := range s {
		if ss, ok := sink.(SessionSink); ok {
			ss.RenderSession(ctx, event)
		}
	}
}
