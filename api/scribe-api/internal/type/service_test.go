// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_type

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold_ConcatenatesAndTaps(t *testing.T) {
	var partials []string
	text, err := Fold(StreamOf("he", "", "llo"), func(p string) { partials = append(partials, p) })
	assert.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, []string{"he", "hello"}, partials)
}

func TestFold_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	stream := func(yield func(string, error) bool) {
		if !yield("partial", nil) {
			return
		}
		if !yield("", boom) {
			return
		}
		yield("never", nil)
	}
	text, err := Fold(stream, nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "partial", text)
}

func TestSessionParameters(t *testing.T) {
	p := SessionParameters{}.WithDefaults(SessionParameters{InputLanguage: "ja"})
	assert.Equal(t, "ja", p.InputLanguage)
	assert.Equal(t, DefaultTotalDurationSeconds, p.TotalDurationSeconds)
	assert.Equal(t, DefaultSegmentDurationSeconds, p.SegmentDurationSeconds)
	assert.Equal(t, 30, p.PlannedSegmentCount())
	assert.NoError(t, p.Validate())

	bad := SessionParameters{TotalDurationSeconds: 100, SegmentDurationSeconds: 30}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidParameters)
	assert.ErrorIs(t, SessionParameters{TotalDurationSeconds: -1, SegmentDurationSeconds: 30}.Validate(), ErrInvalidParameters)
}

type recordingSink struct {
	states   []RenderState
	segments []SegmentEvent
}

func (r *recordingSink) Render(_ context.Context, s RenderState)         { r.states = append(r.states, s) }
func (r *recordingSink) RenderSegment(_ context.Context, e SegmentEvent) { r.segments = append(r.segments, e) }

type renderOnlySink struct{ states []RenderState }

func (r *renderOnlySink) Render(_ context.Context, s RenderState) { r.states = append(r.states, s) }

func TestDisplaySinks_FanOut(t *testing.T) {
	a, b := &recordingSink{}, &renderOnlySink{}
	sinks := DisplaySinks{a, b}

	sinks.Render(context.Background(), RenderState{Kind: RenderFinal, Text: "x"})
	sinks.RenderSegment(context.Background(), SegmentEvent{Index: 1})
	sinks.RenderTimer(context.Background(), TimerEvent{ElapsedSeconds: 1})

	assert.Equal(t, a.states, b.states)
	assert.Len(t, a.segments, 1)
}
