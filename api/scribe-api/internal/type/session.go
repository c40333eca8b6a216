// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_type

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrAlreadyActive       = errors.New("a recording session is already active")
	ErrDeviceUnavailable   = errors.New("capture device unavailable")
	ErrStreamUnavailable   = errors.New("capture stream unavailable")
	ErrModelUnavailable    = errors.New("speech or language model unavailable")
	ErrInvalidParameters   = errors.New("invalid session parameters")
	ErrStartCancelled      = errors.New("session stopped before recording began")
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrSummarizationFailed = errors.New("summarization failed")
)

// SessionState models the lifecycle Idle -> Recording -> Stopping -> Idle.
type SessionState string

const (
	SessionStateIdle      SessionState = "idle"
	SessionStateRecording SessionState = "recording"
	SessionStateStopping  SessionState = "stopping"
)

const (
	DefaultTotalDurationSeconds   = 900
	DefaultSegmentDurationSeconds = 30
)

// SessionParameters are the options recognised when a session starts.
type SessionParameters struct {
	InputLanguage          string `json:"inputLanguage" mapstructure:"input_language"`
	OutputLanguage         string `json:"outputLanguage" mapstructure:"output_language"`
	TotalDurationSeconds   int    `json:"totalDurationSeconds" mapstructure:"total_duration_seconds"`
	SegmentDurationSeconds int    `json:"segmentDurationSeconds" mapstructure:"segment_duration_seconds"`
}

// WithDefaults fills zero values from base.
func (p SessionParameters) WithDefaults(base SessionParameters) SessionParameters {
	if p.InputLanguage == "" {
		p.InputLanguage = base.InputLanguage
	}
	if p.OutputLanguage == "" {
		p.OutputLanguage = base.OutputLanguage
	}
	if p.TotalDurationSeconds == 0 {
		p.TotalDurationSeconds = base.TotalDurationSeconds
	}
	if p.SegmentDurationSeconds == 0 {
		p.SegmentDurationSeconds = base.SegmentDurationSeconds
	}
	if p.TotalDurationSeconds == 0 {
		p.TotalDurationSeconds = DefaultTotalDurationSeconds
	}
	if p.SegmentDurationSeconds == 0 {
		p.SegmentDurationSeconds = DefaultSegmentDurationSeconds
	}
	return p
}

func (p SessionParameters) Validate() error {
	if p.TotalDurationSeconds <= 0 || p.SegmentDurationSeconds <= 0 {
		return fmt.Errorf("%w: durations must be positive", ErrInvalidParameters)
	}
	if p.TotalDurationSeconds%p.SegmentDurationSeconds != 0 {
		return fmt.Errorf("%w: segment duration %ds does not divide total duration %ds",
			ErrInvalidParameters, p.SegmentDurationSeconds, p.TotalDurationSeconds)
	}
	return nil
}

func (p SessionParameters) PlannedSegmentCount() int {
	return p.TotalDurationSeconds / p.SegmentDurationSeconds
}

func (p SessionParameters) SegmentDuration() time.Duration {
	return time.Duration(p.SegmentDurationSeconds) * time.Second
}

// SessionStatus is a read-only view of the controller for transports.
type SessionStatus struct {
	State              SessionState      `json:"state"`
	SessionID          string            `json:"sessionId,omitempty"`
	StartedAt          *time.Time        `json:"startedAt,omitempty"`
	ElapsedSeconds     int               `json:"elapsedSeconds"`
	MaxDurationSeconds int               `json:"maxDurationSeconds"`
	PlannedSegments    int               `json:"plannedSegments"`
	DispatchedSegments int               `json:"dispatchedSegments"`
	Transcripts        []string          `json:"transcripts,omitempty"`
	Summary            *SummarySnapshot  `json:"summary,omitempty"`
	Parameters         SessionParameters `json:"parameters"`
}

// SessionReport describes a finished session; it is handed to the archive.
type SessionReport struct {
	SessionID   string
	Parameters  SessionParameters
	StartedAt   time.Time
	EndedAt     time.Time
	Transcripts []string
	Summary     SummarySnapshot
	StopReason  StopReason
	Err         error
}

type StopReason string

const (
	StopReasonCompleted StopReason = "completed"
	StopReasonStopped   StopReason = "stopped"
	StopReasonTimeout   StopReason = "timeout"
	StopReasonFailed    StopReason = "failed"
)

// SessionArchive stores finished sessions. Nothing is read back on start.
type SessionArchive interface {
	Save(ctx context.Context, report SessionReport) error
}
