// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_display

import (
	"encoding/json"
	"time"
)

// EventType tells a subscriber what Data holds.
type EventType string

const (
	EventSummary         EventType = "summary"          // Data: internal_type.RenderState
	EventSegment         EventType = "segment"          // Data: internal_type.SegmentEvent
	EventTimer           EventType = "timer"            // Data: internal_type.TimerEvent
	EventSession         EventType = "session"          // Data: internal_type.SessionEvent
	EventTranscriptDelta EventType = "transcript_delta" // Data: TranscriptDelta
)

type Event struct {
	Type      EventType   `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

type TranscriptDelta struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

func NewEvent(t EventType, data interface{}) Event {
	return Event{Type: t, Timestamp: time.Now().UnixMilli(), Data: data}
}

func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
