// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_capture

import (
	"bytes"
	"encoding/binary"
	"time"
)

// chunk is a captured fragment placed at ByteOffset from the segment start.
type chunk struct {
	ByteOffset int
	Data       []byte
}

type timeline struct {
	config   Config
	clock    func() time.Time
	start    time.Time
	chunks   []chunk
	cursor   int
	received int
}

func newTimeline(config Config, clock func() time.Time) *timeline {
	return &timeline{config: config, clock: clock, start: clock()}
}

// push places data at its wall-clock offset, never overlapping what is
// already on the timeline. Bursts are laid out back to back.
func (t *timeline) push(data []byte) {
	offset := t.config.durationBytes(t.clock().Sub(t.start))
	if t.cursor > offset {
		offset = t.cursor
	}
	t.chunks = append(t.chunks, chunk{ByteOffset: offset, Data: data})
	t.cursor = offset + len(data)
	t.received += len(data)
}

// render paints the chunks onto a silent buffer no longer than limit and
// returns the bytes past limit separately.
func (t *timeline) render(limit int) ([]byte, []byte) {
	if t.received == 0 {
		return nil, nil
	}
	total := t.cursor
	if total > limit {
		total = limit
	}
	pcm := make([]byte, total)
	var rest []byte
	for _, c := range t.chunks {
		end := c.ByteOffset + len(c.Data)
		if c.ByteOffset >= total {
			rest = append(rest, c.Data...)
			continue
		}
		if end > total {
			copy(pcm[c.ByteOffset:], c.Data[:total-c.ByteOffset])
			rest = append(rest, c.Data[total-c.ByteOffset:]...)
			continue
		}
		copy(pcm[c.ByteOffset:], c.Data)
	}
	return pcm, rest
}

func createWAVFile(config Config, pcmData []byte) []byte {
	var buf bytes.Buffer
	bps := config.bytesPerSecond()

	buf.Write([]byte("RIFF"))
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcmData)))
	buf.Write([]byte("WAVE"))

	buf.Write([]byte("fmt "))
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(AudioPCMFormat))
	binary.Write(&buf, binary.LittleEndian, uint16(config.Channels))
	binary.Write(&buf, binary.LittleEndian, uint32(config.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(bps))
	binary.Write(&buf, binary.LittleEndian, uint16(AudioBytesPerSample*config.Channels))
	binary.Write(&buf, binary.LittleEndian, uint16(AudioBitsPerSample))

	buf.Write([]byte("data"))
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcmData)))
	buf.Write(pcmData)
	return buf.Bytes()
}
