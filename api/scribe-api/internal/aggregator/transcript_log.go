// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_aggregator

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rapidaai/scribe/pkg/commons"
	"github.com/rapidaai/scribe/pkg/utils"
)

// TranscriptLog is an index addressed log whose length is the number of
// dispatched segments. Slots are reserved at dispatch and filled in place.
type TranscriptLog struct {
	mu       sync.RWMutex
	entries  []string
	filled   []bool
	revision uint64
}

func NewTranscriptLog() *TranscriptLog {
	return &TranscriptLog{}
}

// Reserve appends an empty slot and returns its index.
func (l *TranscriptLog) Reserve() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, "")
	l.filled = append(l.filled, false)
	return len(l.entries) - 1
}

// Set fills slot index. A slot is written at most once.
func (l *TranscriptLog) Set(index int, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.entries) {
		return fmt.Errorf("transcript slot %d out of range (len %d)", index, len(l.entries))
	}
	if l.filled[index] {
		return fmt.Errorf("transcript slot %d already filled", index)
	}
	l.entries[index] = text
	l.filled[index] = true
	l.revision++
	return nil
}

func (l *TranscriptLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Entries returns a copy of the log.
func (l *TranscriptLog) Entries() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// View captures the rendered text, its length and revision atomically.
func (l *TranscriptLog) View() (text string, length int, revision uint64, blank bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	blank = true
	for _, e := range l.entries {
		if !utils.IsEmpty(e) {
			blank = false
			break
		}
	}
	return strings.Join(l.entries, commons.SEGMENT_BREAK), len(l.entries), l.revision, blank
}

func (l *TranscriptLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.filled = nil
	l.revision = 0
}
