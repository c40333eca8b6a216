// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_archive

import (
	"context"
	"fmt"

	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
	"github.com/rapidaai/scribe/pkg/connectors"
	"gorm.io/gorm"
)

// Archive writes finished sessions. Nothing is read back on start.
type Archive struct {
	logger   commons.Logger
	postgres connectors.DatabaseConnector
}

func NewArchive(logger commons.Logger, db connectors.DatabaseConnector) *Archive {
	return &Archive{logger: logger, postgres: db}
}

func (a *Archive) Migrate(ctx context.Context) error {
	return a.postgres.DB(ctx).AutoMigrate(&SessionRecord{}, &SegmentRecord{})
}

func (a *Archive) Save(ctx context.Context, report internal_type.SessionReport) error {
	record := &SessionRecord{
		Id:                     report.SessionID,
		StartedAt:              report.StartedAt,
		EndedAt:                report.EndedAt,
		InputLanguage:          report.Parameters.InputLanguage,
		OutputLanguage:         report.Parameters.OutputLanguage,
		TotalDurationSeconds:   report.Parameters.TotalDurationSeconds,
		SegmentDurationSeconds: report.Parameters.SegmentDurationSeconds,
		StopReason:             string(report.StopReason),
		Summary:                report.Summary.Text,
		SummaryGeneration:      report.Summary.Generation,
		SummaryLogLength:       report.Summary.BasedOnLogLength,
	}
	if report.Err != nil {
		record.Error = report.Err.Error()
	}
	for i, text := range report.Transcripts {
		record.Segments = append(record.Segments, &SegmentRecord{SessionId: report.SessionID, Index: i, Transcript: text})
	}

	err := a.postgres.DB(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(record).Error
	})
	if err != nil {
		a.logger.Errorf("archive: unable to save session %s: %v", report.SessionID, err)
		return fmt.Errorf("archive session %s: %w", report.SessionID, err)
	}
	a.logger.Debugf("archive: saved session %s with %d segments", report.SessionID, len(record.Segments))
	return nil
}

func (a *Archive) Get(ctx context.Context, id string) (*SessionRecord, error) {
	var record SessionRecord
	tx := a.postgres.DB(ctx).
		Preload("Segments", func(db *gorm.DB) *gorm.DB { return db.Order("segment_index ASC") }).
		Where("id = ?", id).
		First(&record)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &record, nil
}

// List returns the most recent sessions without their segments.
func (a *Archive) List(ctx context.Context, limit int) ([]*SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []*SessionRecord
	tx := a.postgres.DB(ctx).Order("started_at DESC").Limit(limit).Find(&records)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return records, nil
}
