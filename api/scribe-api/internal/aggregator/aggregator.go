// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_aggregator

import (
	"context"
	"sync"
	"time"

	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
)

// position orders summary work by the log it was computed from.
type position struct {
	length   int
	revision uint64
}

func (p position) atLeast(o position) bool {
	if p.length != o.length {
		return p.length > o.length
	}
	return p.revision >= o.revision
}

// SummaryAggregator keeps the transcript log and one cumulative summary.
// Regenerations may overlap; a result computed from an older log never
// replaces one computed from a newer log.
type SummaryAggregator struct {
	logger  commons.Logger
	service internal_type.SummarizationService
	sinks   internal_type.DisplaySinks
	prompt  *promptBuilder
	log     *TranscriptLog
	clock   func() time.Time

	mu         sync.Mutex
	language   string
	displayed  internal_type.SummarySnapshot
	published  position
	generation uint64
}

type Option func(*SummaryAggregator) error

// WithPrompt overrides DefaultSummaryPrompt. The template receives
// transcript, segments and language.
func WithPrompt(source string) Option {
	return func(a *SummaryAggregator) error {
		p, err := newPromptBuilder(source)
		if err != nil {
			return err
		}
		a.prompt = p
		return nil
	}
}

func WithClock(clock func() time.Time) Option {
	return func(a *SummaryAggregator) error {
		a.clock = clock
		return nil
	}
}

func NewSummaryAggregator(
	logger commons.Logger,
	service internal_type.SummarizationService,
	sinks internal_type.DisplaySinks,
	opts ...Option,
) (*SummaryAggregator, error) {
	a := &SummaryAggregator{
		logger:  logger,
		service: service,
		sinks:   sinks,
		log:     NewTranscriptLog(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	if a.prompt == nil {
		p, err := newPromptBuilder("")
		if err != nil {
			return nil, err
		}
		a.prompt = p
	}
	a.displayed = internal_type.SummarySnapshot{Kind: internal_type.RenderEmpty, CreatedAt: a.clock()}
	return a, nil
}

// Reset discards the log and summary and publishes an empty state.
func (a *SummaryAggregator) Reset(ctx context.Context, outputLanguage string) {
	a.log.Reset()

	a.mu.Lock()
	defer a.mu.Unlock()
	a.language = outputLanguage
	a.generation = 0
	a.published = position{}
	a.displayed = internal_type.SummarySnapshot{Kind: internal_type.RenderEmpty, CreatedAt: a.clock()}
	a.sinks.Render(ctx, internal_type.RenderState{Kind: internal_type.RenderEmpty})
}

// Reserve pre-allocates the log slot of a dispatched segment.
func (a *SummaryAggregator) Reserve() int {
	return a.log.Reserve()
}

func (a *SummaryAggregator) Transcripts() []string {
	return a.log.Entries()
}

// Snapshot returns the last valid summary.
func (a *SummaryAggregator) Snapshot() internal_type.SummarySnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.displayed
}

// Placeholder writes an empty entry for a failed segment without regenerating.
func (a *SummaryAggregator) Placeholder(index int) error {
	return a.log.Set(index, "")
}

// OnSegmentComplete fills slot index and regenerates the summary.
func (a *SummaryAggregator) OnSegmentComplete(ctx context.Context, index int, text string) error {
	if err := a.log.Set(index, text); err != nil {
		a.logger.Errorf("aggregator: unable to write segment %d: %v", index, err)
		return err
	}
	a.Regenerate(ctx)
	return nil
}

// Regenerate summarizes the whole log as it is now.
func (a *SummaryAggregator) Regenerate(ctx context.Context) {
	text, length, revision, blank := a.log.View()
	at := position{length: length, revision: revision}

	if blank {
		a.publish(ctx, at, internal_type.SummarySnapshot{Kind: internal_type.RenderEmpty})
		return
	}

	a.mu.Lock()
	language := a.language
	if at.atLeast(a.published) {
		a.sinks.Render(ctx, internal_type.RenderState{
			Kind:             internal_type.RenderGenerating,
			Generation:       a.generation,
			BasedOnLogLength: length,
		})
	}
	a.mu.Unlock()

	prompt, err := a.prompt.Build(text, length, language)
	if err != nil {
		a.fail(ctx, at, err)
		return
	}

	started := a.clock()
	summary, err := internal_type.Fold(a.service.SummarizeStream(ctx, prompt), nil)
	if err != nil {
		a.fail(ctx, at, err)
		return
	}
	a.logger.Debugf("aggregator: %s produced summary for %d segments in %s", a.service.Name(), length, a.clock().Sub(started))
	a.publish(ctx, at, internal_type.SummarySnapshot{Kind: internal_type.RenderFinal, Text: summary})
}

func (a *SummaryAggregator) publish(ctx context.Context, at position, snapshot internal_type.SummarySnapshot) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !at.atLeast(a.published) {
		a.logger.Debugf("aggregator: discarding stale summary based on %d segments (rev %d), displayed %d (rev %d)",
			at.length, at.revision, a.published.length, a.published.revision)
		return false
	}
	if snapshot.Kind == internal_type.RenderFinal {
		a.generation++
	}
	snapshot.Generation = a.generation
	snapshot.BasedOnLogLength = at.length
	snapshot.LogRevision = at.revision
	snapshot.CreatedAt = a.clock()

	a.published = at
	a.displayed = snapshot
	a.sinks.Render(ctx, internal_type.RenderState{
		Kind:             snapshot.Kind,
		Text:             snapshot.Text,
		Generation:       snapshot.Generation,
		BasedOnLogLength: snapshot.BasedOnLogLength,
	})
	return true
}

// fail shows the error without touching the generation or the last valid snapshot.
func (a *SummaryAggregator) fail(ctx context.Context, at position, err error) {
	a.logger.Errorf("aggregator: summary regeneration for %d segments failed: %v", at.length, err)

	a.mu.Lock()
	defer a.mu.Unlock()
	if !at.atLeast(a.published) {
		return
	}
	a.published = at
	a.sinks.Render(ctx, internal_type.RenderState{
		Kind:             internal_type.RenderError,
		Message:          err.Error(),
		Generation:       a.generation,
		BasedOnLogLength: at.length,
	})
}
