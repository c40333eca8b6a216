// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_archive

import (
	"context"
	"errors"
	"testing"
	"time"

	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
	"github.com/rapidaai/scribe/pkg/configs"
	"github.com/rapidaai/scribe/pkg/connectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArchive(t *testing.T) *Archive {
	t.Helper()
	logger, err := commons.NewApplicationLogger(commons.Level("error"))
	require.NoError(t, err)
	db := connectors.NewDatabaseConnector(configs.ArchiveConfig{Driver: "sqlite", DSN: "file::memory:", MaxOpenConnection: 1}, logger)
	require.NoError(t, db.Connect(context.Background()))
	t.Cleanup(func() { _ = db.Disconnect(context.Background()) })
	a := NewArchive(logger, db)
	require.NoError(t, a.Migrate(context.Background()))
	return a
}

func report(id string, started time.Time, transcripts ...string) internal_type.SessionReport {
	return internal_type.SessionReport{
		SessionID: id,
		Parameters: internal_type.SessionParameters{
			InputLanguage: "ja", OutputLanguage: "ja",
			TotalDurationSeconds: 60, SegmentDurationSeconds: 30,
		},
		StartedAt:   started,
		EndedAt:     started.Add(time.Minute),
		Transcripts: transcripts,
		Summary: internal_type.SummarySnapshot{
			Kind: internal_type.RenderFinal, Text: "- point", Generation: 2, BasedOnLogLength: len(transcripts),
		},
		StopReason: internal_type.StopReasonCompleted,
	}
}

func TestArchive_SaveAndGet(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()
	started := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, a.Save(ctx, report("s-1", started, "text0", "")))

	got, err := a.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "completed", got.StopReason)
	assert.Equal(t, "- point", got.Summary)
	assert.Equal(t, uint64(2), got.SummaryGeneration)
	require.Len(t, got.Segments, 2)
	assert.Equal(t, 0, got.Segments[0].Index)
	assert.Equal(t, "text0", got.Segments[0].Transcript)
	assert.Equal(t, "", got.Segments[1].Transcript)
}

func TestArchive_SaveRecordsError(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()
	r := report("s-err", time.Now())
	r.StopReason = internal_type.StopReasonFailed
	r.Err = errors.New("capture stream unavailable")

	require.NoError(t, a.Save(ctx, r))
	got, err := a.Get(ctx, "s-err")
	require.NoError(t, err)
	assert.Equal(t, "capture stream unavailable", got.Error)
	assert.Empty(t, got.Segments)
}

func TestArchive_DuplicateIdFails(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()
	require.NoError(t, a.Save(ctx, report("dup", time.Now(), "a")))
	assert.Error(t, a.Save(ctx, report("dup", time.Now(), "b")))
}

func TestArchive_ListNewestFirst(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, a.Save(ctx, report(id, base.Add(time.Duration(i)*time.Hour), "x")))
	}

	records, err := a.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c", records[0].Id)
	assert.Equal(t, "b", records[1].Id)

	_, err = a.Get(ctx, "missing")
	assert.Error(t, err)
}
