// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	internal_aggregator "github.com/rapidaai/scribe/api/scribe-api/internal/aggregator"
	internal_recorder "github.com/rapidaai/scribe/api/scribe-api/internal/audio/recorder"
	internal_transcriber "github.com/rapidaai/scribe/api/scribe-api/internal/transcriber"
	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
	"github.com/rapidaai/scribe/pkg/utils"
	"golang.org/x/sync/errgroup"
)

const remainingWarningSeconds = 60

// activeSession is everything owned by one recording run.
type activeSession struct {
	id        string
	params    internal_type.SessionParameters
	handle    internal_type.StreamHandle
	startedAt time.Time
	timer     *Timer

	stopped     atomic.Bool
	timedOut    atomic.Bool
	dispatched  atomic.Int64
	releaseOnce sync.Once
	jobs        errgroup.Group
	done        chan struct{}
}

type SessionController struct {
	logger       commons.Logger
	capture      internal_type.AudioCaptureService
	recorder     *internal_recorder.SegmentRecorder
	worker       *internal_transcriber.TranscriptionWorker
	aggregator   *internal_aggregator.SummaryAggregator
	sinks        internal_type.DisplaySinks
	availability internal_type.ModelAvailability
	archive      internal_type.SessionArchive
	defaults     internal_type.SessionParameters
	tickInterval time.Duration
	clock        func() time.Time

	summaryOpts []internal_aggregator.Option
	workerOpts  []internal_transcriber.Option

	mu       sync.Mutex
	state    internal_type.SessionState
	starting bool
	// stopPending records a Stop that arrived while begin was still starting.
	stopPending bool
	current     *activeSession
	last     *internal_type.SessionReport
}

type Option func(*SessionController)

func WithAvailability(a internal_type.ModelAvailability) Option {
	return func(c *SessionController) { c.availability = a }
}

func WithArchive(a internal_type.SessionArchive) Option {
	return func(c *SessionController) { c.archive = a }
}

// WithDefaults fills parameters a start request leaves unset.
func WithDefaults(p internal_type.SessionParameters) Option {
	return func(c *SessionController) { c.defaults = p }
}

func WithTickInterval(d time.Duration) Option {
	return func(c *SessionController) { c.tickInterval = d }
}

func WithSummaryPrompt(source string) Option {
	return func(c *SessionController) {
		if source != "" {
			c.summaryOpts = append(c.summaryOpts, internal_aggregator.WithPrompt(source))
		}
	}
}

// WithTranscriptDeltas exposes partial transcription text as it streams in.
func WithTranscriptDeltas(fn internal_transcriber.DeltaFunc) Option {
	return func(c *SessionController) {
		c.workerOpts = append(c.workerOpts, internal_transcriber.OnDelta(fn))
	}
}

func NewSessionController(
	logger commons.Logger,
	capture internal_type.AudioCaptureService,
	stt internal_type.SpeechToTextService,
	summarizer internal_type.SummarizationService,
	sinks internal_type.DisplaySinks,
	opts ...Option,
) (*SessionController, error) {
	c := &SessionController{
		logger:       logger,
		capture:      capture,
		sinks:        sinks,
		tickInterval: time.Second,
		clock:        time.Now,
		state:        internal_type.SessionStateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	aggregator, err := internal_aggregator.NewSummaryAggregator(logger, summarizer, sinks, c.summaryOpts...)
	if err != nil {
		return nil, err
	}
	c.aggregator = aggregator
	c.recorder = internal_recorder.NewSegmentRecorder(logger, capture)
	c.worker = internal_transcriber.NewTranscriptionWorker(logger, stt, sinks, c.workerOpts...)
	return c, nil
}

// Start runs one session to completion and returns once it is back to idle.
func (c *SessionController) Start(ctx context.Context, params internal_type.SessionParameters) error {
	s, err := c.begin(ctx, params)
	if err != nil {
		return err
	}
	return c.run(ctx, s)
}

// StartAsync returns as soon as the capture device is held; the session
// keeps running after ctx ends.
func (c *SessionController) StartAsync(ctx context.Context, params internal_type.SessionParameters) (string, error) {
	s, err := c.begin(ctx, params)
	if err != nil {
		return "", err
	}
	utils.Go(ctx, func() {
		if err := c.run(context.WithoutCancel(ctx), s); err != nil {
			c.logger.Errorf("session: %s ended with error: %v", s.id, err)
		}
	}, func(err error) {
		c.logger.Errorf("session: %s crashed: %v", s.id, err)
	})
	return s.id, nil
}

func (c *SessionController) begin(ctx context.Context, params internal_type.SessionParameters) (*activeSession, error) {
	params = params.WithDefaults(c.defaults)
	if err := params.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.state != internal_type.SessionStateIdle || c.starting {
		c.mu.Unlock()
		return nil, internal_type.ErrAlreadyActive
	}
	c.starting = true
	c.stopPending = false
	c.mu.Unlock()

	committed := false
	defer func() {
		if !committed {
			c.mu.Lock()
			c.starting = false
			c.stopPending = false
			c.mu.Unlock()
		}
	}()

	if c.availability != nil {
		ok, err := c.availability.Available(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", internal_type.ErrModelUnavailable, err)
		}
		if !ok {
			return nil, internal_type.ErrModelUnavailable
		}
	}

	handle, err := c.capture.Acquire(ctx)
	if err != nil {
		if errors.Is(err, internal_type.ErrDeviceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", internal_type.ErrDeviceUnavailable, err)
	}

	s := &activeSession{
		id:        uuid.NewString(),
		params:    params,
		handle:    handle,
		startedAt: c.clock(),
		done:      make(chan struct{}),
	}
	s.timer = NewTimer(c.tickInterval, params.TotalDurationSeconds,
		func(elapsed int) { c.renderTimer(ctx, s, elapsed) },
		func() {
			c.logger.Infof("session: %s reached its %ds limit", s.id, params.TotalDurationSeconds)
			s.timedOut.Store(true)
			c.stopSession(s)
		})

	c.mu.Lock()
	if c.stopPending {
		c.mu.Unlock()
		c.logger.Infof("session: stop requested while starting, releasing capture")
		if err := c.capture.Release(handle); err != nil {
			c.logger.Warnf("session: releasing capture: %v", err)
		}
		return nil, internal_type.ErrStartCancelled
	}
	c.state = internal_type.SessionStateRecording
	c.current = s
	c.starting = false
	c.mu.Unlock()
	committed = true

	c.aggregator.Reset(ctx, params.OutputLanguage)
	s.timer.Start()
	c.logger.Infof("session: %s recording %d segments of %ds (%s -> %s)",
		s.id, params.PlannedSegmentCount(), params.SegmentDurationSeconds, params.InputLanguage, params.OutputLanguage)
	c.sinks.RenderSession(ctx, internal_type.SessionEvent{
		SessionID: s.id,
		State:     internal_type.SessionStateRecording,
		Message:   fmt.Sprintf("recording started: %d segments of %ds", params.PlannedSegmentCount(), params.SegmentDurationSeconds),
	})
	return s, nil
}

func (c *SessionController) run(ctx context.Context, s *activeSession) (err error) {
	reason := internal_type.StopReasonCompleted
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("session panic: %v", r)
			reason = internal_type.StopReasonFailed
		}
		c.finish(ctx, s, reason, err)
	}()

	jobCtx := context.WithoutCancel(ctx)
	planned := s.params.PlannedSegmentCount()
	for index := 0; index < planned; index++ {
		if s.stopped.Load() || ctx.Err() != nil || s.timer.Elapsed() >= s.params.TotalDurationSeconds {
			reason = c.stopReason(s)
			break
		}

		startOffset := index * s.params.SegmentDurationSeconds
		audio, rerr := c.recorder.Record(ctx, s.handle, s.params.SegmentDuration())
		if rerr != nil {
			if s.stopped.Load() {
				reason = c.stopReason(s)
				break
			}
			c.logger.Errorf("session: %s capture failed on segment %d: %v", s.id, index, rerr)
			reason = internal_type.StopReasonFailed
			return rerr
		}
		if s.stopped.Load() || ctx.Err() != nil {
			// The time limit cuts the running segment short; keep what it captured.
			// A manual stop discards it.
			if s.timedOut.Load() && !audio.Empty() && ctx.Err() == nil {
				c.dispatch(ctx, jobCtx, s, startOffset, audio)
				if index < planned-1 {
					reason = internal_type.StopReasonTimeout
				}
				break
			}
			c.logger.Debugf("session: %s discarding %s of audio captured after stop", s.id, audio.Duration)
			reason = c.stopReason(s)
			break
		}
		c.dispatch(ctx, jobCtx, s, startOffset, audio)
	}
	return nil
}

// dispatch reserves the next log slot and queues the segment for transcription.
func (c *SessionController) dispatch(ctx, jobCtx context.Context, s *activeSession, startOffset int, audio internal_type.AudioBuffer) {
	planned := s.params.PlannedSegmentCount()
	segment := internal_type.Segment{
		Index:              c.aggregator.Reserve(),
		StartOffsetSeconds: startOffset,
		Audio:              audio,
	}
	s.dispatched.Add(1)
	c.sinks.RenderSegment(ctx, internal_type.SegmentEvent{
		Index:        segment.Index,
		Total:        planned,
		StartSeconds: startOffset,
		EndSeconds:   startOffset + s.params.SegmentDurationSeconds,
		Status:       internal_type.SegmentStatusRecorded,
		Message: fmt.Sprintf("segment %d/%d (%ds-%ds): recorded, processing in background",
			segment.Index+1, planned, startOffset, startOffset+s.params.SegmentDurationSeconds),
	})
	s.jobs.Go(func() error {
		c.worker.Process(jobCtx, segment, planned, s.params.InputLanguage, s.params.OutputLanguage, c.aggregator)
		return nil
	})
}

func (c *SessionController) stopReason(s *activeSession) internal_type.StopReason {
	if s.timedOut.Load() || s.timer.Elapsed() >= s.params.TotalDurationSeconds {
		return internal_type.StopReasonTimeout
	}
	return internal_type.StopReasonStopped
}

// finish is the single teardown path for every way a session can end.
func (c *SessionController) finish(ctx context.Context, s *activeSession, reason internal_type.StopReason, runErr error) {
	jobCtx := context.WithoutCancel(ctx)
	s.timer.Stop()

	c.mu.Lock()
	c.state = internal_type.SessionStateStopping
	c.mu.Unlock()

	message := "stopped, waiting for queued segments"
	if reason == internal_type.StopReasonCompleted {
		message = "all segments recorded, waiting for background transcription"
	}
	c.sinks.RenderSession(jobCtx, internal_type.SessionEvent{SessionID: s.id, State: internal_type.SessionStateStopping, Message: message})

	s.stopped.Store(true)
	_ = s.jobs.Wait()
	c.release(s)

	report := internal_type.SessionReport{
		SessionID:   s.id,
		Parameters:  s.params,
		StartedAt:   s.startedAt,
		EndedAt:     c.clock(),
		Transcripts: c.aggregator.Transcripts(),
		Summary:     c.aggregator.Snapshot(),
		StopReason:  reason,
		Err:         runErr,
	}
	if c.archive != nil {
		if err := c.archive.Save(jobCtx, report); err != nil {
			c.logger.Errorf("session: unable to archive %s: %v", s.id, err)
		}
	}
	c.logger.Infof("session: %s finished (%s) with %d segments in %s",
		s.id, reason, s.dispatched.Load(), report.EndedAt.Sub(report.StartedAt).Round(time.Millisecond))

	c.mu.Lock()
	c.state = internal_type.SessionStateIdle
	c.current = nil
	c.last = &report
	c.mu.Unlock()

	c.sinks.RenderSession(jobCtx, internal_type.SessionEvent{
		SessionID: s.id,
		State:     internal_type.SessionStateIdle,
		Message:   fmt.Sprintf("session finished: %s", reason),
	})
	close(s.done)
}

// Stop ends the active session, if any. It never cancels queued transcription.
func (c *SessionController) Stop() {
	c.mu.Lock()
	s := c.current
	if s == nil && c.starting {
		c.stopPending = true
	}
	c.mu.Unlock()
	if s == nil {
		return
	}
	c.stopSession(s)
}

func (c *SessionController) stopSession(s *activeSession) {
	if s.stopped.CompareAndSwap(false, true) {
		c.logger.Infof("session: %s stop requested", s.id)
	}
	s.timer.halt()
	c.release(s)
}

func (c *SessionController) release(s *activeSession) {
	s.releaseOnce.Do(func() {
		if err := c.capture.Release(s.handle); err != nil {
			c.logger.Warnf("session: %s releasing capture: %v", s.id, err)
		}
	})
}

// Wait blocks until the active session is idle again or ctx ends.
func (c *SessionController) Wait(ctx context.Context) error {
	c.mu.Lock()
	s := c.current
	c.mu.Unlock()
	if s == nil {
		return nil
	}
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *SessionController) Status() internal_type.SessionStatus {
	c.mu.Lock()
	state := c.state
	s := c.current
	last := c.last
	c.mu.Unlock()

	status := internal_type.SessionStatus{State: state}
	switch {
	case s != nil:
		status.SessionID = s.id
		status.StartedAt = utils.Ptr(s.startedAt)
		status.ElapsedSeconds = s.timer.Elapsed()
		status.MaxDurationSeconds = s.params.TotalDurationSeconds
		status.PlannedSegments = s.params.PlannedSegmentCount()
		status.DispatchedSegments = int(s.dispatched.Load())
		status.Parameters = s.params
	case last != nil:
		status.SessionID = last.SessionID
		status.StartedAt = utils.Ptr(last.StartedAt)
		status.ElapsedSeconds = int(last.EndedAt.Sub(last.StartedAt).Seconds())
		status.MaxDurationSeconds = last.Parameters.TotalDurationSeconds
		status.PlannedSegments = last.Parameters.PlannedSegmentCount()
		status.DispatchedSegments = len(last.Transcripts)
		status.Parameters = last.Parameters
	default:
		status.Parameters = c.defaults.WithDefaults(internal_type.SessionParameters{})
		status.MaxDurationSeconds = status.Parameters.TotalDurationSeconds
		status.PlannedSegments = status.Parameters.PlannedSegmentCount()
		return status
	}
	status.Transcripts = c.aggregator.Transcripts()
	snapshot := c.aggregator.Snapshot()
	status.Summary = &snapshot
	return status
}

// LastReport returns the outcome of the most recent finished session.
func (c *SessionController) LastReport() (internal_type.SessionReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return internal_type.SessionReport{}, false
	}
	return *c.last, true
}

func (c *SessionController) renderTimer(ctx context.Context, s *activeSession, elapsed int) {
	remaining := s.params.TotalDurationSeconds - elapsed
	if remaining < 0 {
		remaining = 0
	}
	c.sinks.RenderTimer(context.WithoutCancel(ctx), internal_type.TimerEvent{
		ElapsedSeconds:   elapsed,
		RemainingSeconds: remaining,
		MaxSeconds:       s.params.TotalDurationSeconds,
		Warning:          remaining <= remainingWarningSeconds,
	})
}
