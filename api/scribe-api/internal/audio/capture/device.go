// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
	"github.com/zaf/g711"
)

const (
	EncodingLinear16 = "linear16"
	EncodingMulaw    = "mulaw"

	AudioBytesPerSample = 2  // LINEAR16 → 2 bytes per sample
	AudioBitsPerSample  = 16 // LINEAR16 → 16 bits per sample
	AudioPCMFormat      = 1  // WAV PCM format tag

	frameBuffer = 256
)

var errSourceAttached = errors.New("an audio source is already attached")

type Config struct {
	SampleRate int
	Channels   int
	Encoding   string
}

func (c Config) bytesPerSecond() int {
	return c.SampleRate * c.Channels * AudioBytesPerSample
}

// durationBytes converts a wall-clock duration to a frame-aligned byte count.
func (c Config) durationBytes(d time.Duration) int {
	raw := int(d.Seconds() * float64(c.bytesPerSecond()))
	frameSize := AudioBytesPerSample * c.Channels
	return (raw / frameSize) * frameSize
}

// Device is a single capture device fed by one external producer (a
// websocket client, a file replay). Exactly one session can hold it at a time.
type Device struct {
	logger commons.Logger
	config Config
	clock  func() time.Time

	mu     sync.Mutex
	source *Source
	active *handle
}

func NewDevice(logger commons.Logger, config Config) (*Device, error) {
	if config.SampleRate <= 0 || config.Channels <= 0 {
		return nil, fmt.Errorf("invalid audio config: rate=%d channels=%d", config.SampleRate, config.Channels)
	}
	switch config.Encoding {
	case "":
		config.Encoding = EncodingLinear16
	case EncodingLinear16, EncodingMulaw:
	default:
		return nil, fmt.Errorf("unsupported audio encoding %q", config.Encoding)
	}
	return &Device{logger: logger, config: config, clock: time.Now}, nil
}

func (d *Device) Config() Config {
	return d.config
}

// Source is the producer side of the device.
type Source struct {
	device *Device
	frames chan []byte
	closed chan struct{}
	once   sync.Once
}

// Attach connects a producer. Only one producer may be attached.
func (d *Device) Attach() (*Source, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.source != nil {
		return nil, errSourceAttached
	}
	d.source = &Source{
		device: d,
		frames: make(chan []byte, frameBuffer),
		closed: make(chan struct{}),
	}
	d.logger.Infof("capture: audio source attached (%d Hz, %d ch, %s)", d.config.SampleRate, d.config.Channels, d.config.Encoding)
	return d.source, nil
}

// Write queues one frame. Frames are dropped when nobody is reading fast
// enough or the source is closed.
func (s *Source) Write(frame []byte) bool {
	if len(frame) == 0 {
		return true
	}
	var buf []byte
	if s.device.config.Encoding == EncodingMulaw {
		buf = g711.DecodeUlaw(frame)
	} else {
		buf = make([]byte, len(frame))
		copy(buf, frame)
	}
	select {
	case <-s.closed:
		return false
	default:
	}
	select {
	case s.frames <- buf:
		return true
	default:
		s.device.logger.Warnf("capture: dropping %d byte frame, reader is behind", len(buf))
		return false
	}
}

func (s *Source) Close() {
	s.once.Do(func() {
		close(s.closed)
		s.device.mu.Lock()
		if s.device.source == s {
			s.device.source = nil
		}
		s.device.mu.Unlock()
		s.device.logger.Infof("capture: audio source detached")
	})
}

type handle struct {
	id       string
	source   *Source
	released chan struct{}
	once     sync.Once
	carry    []byte
}

func (h *handle) ID() string { return h.id }

func (d *Device) Acquire(ctx context.Context) (internal_type.StreamHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.source == nil {
		return nil, fmt.Errorf("%w: no audio source attached", internal_type.ErrDeviceUnavailable)
	}
	if d.active != nil {
		return nil, fmt.Errorf("%w: device busy", internal_type.ErrDeviceUnavailable)
	}
	// stale frames belong to no session
	for drained := false; !drained; {
		select {
		case <-d.source.frames:
		default:
			drained = true
		}
	}
	d.active = &handle{id: uuid.NewString(), source: d.source, released: make(chan struct{})}
	return d.active, nil
}

func (d *Device) Release(h internal_type.StreamHandle) error {
	hd, ok := h.(*handle)
	if !ok || hd == nil {
		return fmt.Errorf("%w: unknown stream handle", internal_type.ErrStreamUnavailable)
	}
	hd.once.Do(func() {
		close(hd.released)
		d.mu.Lock()
		if d.active == hd {
			d.active = nil
		}
		d.mu.Unlock()
	})
	return nil
}

// CaptureSegment collects audio for one segment. Frames are placed on a
// timeline by arrival time; gaps become silence. It returns early with what
// it has when the handle is released or ctx ends.
func (d *Device) CaptureSegment(ctx context.Context, h internal_type.StreamHandle, duration time.Duration) (internal_type.AudioBuffer, error) {
	hd, ok := h.(*handle)
	if !ok || hd == nil {
		return internal_type.AudioBuffer{}, fmt.Errorf("%w: unknown stream handle", internal_type.ErrStreamUnavailable)
	}
	select {
	case <-hd.released:
		return internal_type.AudioBuffer{}, nil
	default:
	}

	tl := newTimeline(d.config, d.clock)
	target := d.config.durationBytes(duration)
	if len(hd.carry) > 0 {
		tl.push(hd.carry)
		hd.carry = nil
	}

	deadline := time.NewTimer(duration)
	defer deadline.Stop()

	var streamErr error
loop:
	for tl.cursor < target {
		select {
		case frame := <-hd.source.frames:
			tl.push(frame)
		case <-hd.source.closed:
			streamErr = fmt.Errorf("%w: audio source closed", internal_type.ErrStreamUnavailable)
			break loop
		case <-hd.released:
			break loop
		case <-ctx.Done():
			break loop
		case <-deadline.C:
			break loop
		}
	}

	pcm, rest := tl.render(target)
	hd.carry = rest
	if streamErr != nil && tl.received == 0 {
		return internal_type.AudioBuffer{}, streamErr
	}
	buf := internal_type.AudioBuffer{
		SampleRate: d.config.SampleRate,
		Channels:   d.config.Channels,
		MimeType:   "audio/wav",
		Duration:   time.Duration(float64(len(pcm)) / float64(d.config.bytesPerSecond()) * float64(time.Second)),
	}
	if len(pcm) > 0 {
		buf.Data = createWAVFile(d.config, pcm)
	}
	return buf, streamErr
}
