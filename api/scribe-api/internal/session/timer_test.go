// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_session

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer_ExpiresExactlyOnce(t *testing.T) {
	var expired atomic.Int32
	var mu sync.Mutex
	var ticks []int
	timer := NewTimer(time.Millisecond, 5,
		func(elapsed int) {
			mu.Lock()
			ticks = append(ticks, elapsed)
			mu.Unlock()
		},
		func() { expired.Add(1) })

	timer.Start()
	require.Eventually(t, func() bool { return expired.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	timer.Stop()
	timer.Stop()

	assert.Equal(t, int32(1), expired.Load())
	assert.Equal(t, 5, timer.Elapsed())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ticks)
}

func TestTimer_StopBeforeExpiry(t *testing.T) {
	var expired atomic.Int32
	timer := NewTimer(time.Hour, 5, nil, func() { expired.Add(1) })
	timer.Start()
	timer.Stop()
	assert.Zero(t, timer.Elapsed())
	assert.Zero(t, expired.Load())
}

func TestTimer_StopWithoutStart(t *testing.T) {
	timer := NewTimer(0, 5, nil, nil)
	done := make(chan struct{})
	go func() {
		timer.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a timer that never started")
	}
}
