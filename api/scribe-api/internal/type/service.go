// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_type

import (
	"context"
	"iter"
	"strings"
)

// TextStream is a lazy, finite sequence of text deltas. A non nil error ends
// the sequence.
type TextStream = iter.Seq2[string, error]

// SpeechToTextService turns one audio buffer into streamed text.
type SpeechToTextService interface {
	Name() string
	TranscribeStream(ctx context.Context, audio AudioBuffer, inputLanguage, outputLanguage string) TextStream
}

// SummarizationService turns a prompt into streamed text.
type SummarizationService interface {
	Name() string
	SummarizeStream(ctx context.Context, prompt string) TextStream
}

// ModelAvailability is polled once before a session starts.
type ModelAvailability interface {
	Available(ctx context.Context) (bool, error)
}

// Fold concatenates a stream, calling tap with the accumulated text after each delta.
func Fold(stream TextStream, tap func(partial string)) (string, error) {
	var sb strings.Builder
	for delta, err := range stream {
		if err != nil {
			return sb.String(), err
		}
		if delta == "" {
			continue
		}
		sb.WriteString(delta)
		if tap != nil {
			tap(sb.String())
		}
	}
	return sb.String(), nil
}

// StreamOf yields the given deltas; providers without native streaming use it.
func StreamOf(deltas ...string) TextStream {
	return func(yield func(string, error) bool) {
		for _, d := range deltas {
			if !yield(d, nil) {
				return
			}
		}
	}
}

// StreamError yields a single error.
func StreamError(err error) TextStream {
	return func(yield func(string, error) bool) {
		yield("", err)
	}
}
