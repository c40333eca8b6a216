// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_session

import (
	"sync"
	"sync/atomic"
	"time"
)

// Timer counts session seconds. Every tick is one elapsed second regardless
// of the tick interval.
type Timer struct {
	interval   time.Duration
	maxSeconds int
	onTick     func(elapsed int)
	onExpire   func()

	elapsed    atomic.Int64
	started    atomic.Bool
	expireOnce sync.Once
	stopOnce   sync.Once
	quit       chan struct{}
	exited     chan struct{}
}

func NewTimer(interval time.Duration, maxSeconds int, onTick func(elapsed int), onExpire func()) *Timer {
	if interval <= 0 {
		interval = time.Second
	}
	return &Timer{
		interval:   interval,
		maxSeconds: maxSeconds,
		onTick:     onTick,
		onExpire:   onExpire,
		quit:       make(chan struct{}),
		exited:     make(chan struct{}),
	}
}

func (t *Timer) Start() {
	if !t.started.CompareAndSwap(false, true) {
		return
	}
	go t.run()
}

func (t *Timer) run() {
	defer close(t.exited)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-t.quit:
			return
		case <-ticker.C:
			select {
			case <-t.quit:
				return
			default:
			}
			elapsed := int(t.elapsed.Add(1))
			if t.onTick != nil {
				t.onTick(elapsed)
			}
			if elapsed >= t.maxSeconds {
				t.expireOnce.Do(func() {
					if t.onExpire != nil {
						t.onExpire()
					}
				})
				return
			}
		}
	}
}

func (t *Timer) Elapsed() int {
	return int(t.elapsed.Load())
}

// halt stops ticking without waiting, so it is safe from inside onExpire.
func (t *Timer) halt() {
	t.stopOnce.Do(func() { close(t.quit) })
}

// Stop halts ticking and waits for the ticking goroutine. Safe to call more than once.
func (t *Timer) Stop() {
	t.halt()
	if t.started.Load() {
		<-t.exited
	}
}
