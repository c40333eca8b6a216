// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_archive

import "time"

type SessionRecord struct {
	Id                     string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	CreatedDate            time.Time `json:"createdDate" gorm:"type:timestamp;not null;autoCreateTime"`
	StartedAt              time.Time `json:"startedAt" gorm:"type:timestamp;not null"`
	EndedAt                time.Time `json:"endedAt" gorm:"type:timestamp;not null"`
	InputLanguage          string    `json:"inputLanguage" gorm:"type:varchar(35)"`
	OutputLanguage         string    `json:"outputLanguage" gorm:"type:varchar(35)"`
	TotalDurationSeconds   int       `json:"totalDurationSeconds" gorm:"type:integer;not null"`
	SegmentDurationSeconds int       `json:"segmentDurationSeconds" gorm:"type:integer;not null"`
	StopReason             string    `json:"stopReason" gorm:"type:varchar(20);not null"`
	Error                  string    `json:"error,omitempty" gorm:"type:text"`
	Summary                string    `json:"summary" gorm:"type:text"`
	SummaryGeneration      uint64    `json:"summaryGeneration" gorm:"type:bigint"`
	SummaryLogLength       int       `json:"summaryLogLength" gorm:"type:integer"`

	Segments []*SegmentRecord `json:"segments" gorm:"foreignKey:SessionId;constraint:OnDelete:CASCADE"`
}

type SegmentRecord struct {
	Id         uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	SessionId  string `json:"sessionId" gorm:"type:varchar(36);not null;index"`
	Index      int    `json:"index" gorm:"column:segment_index;type:integer;not null"`
	Transcript string `json:"transcript" gorm:"type:text"`
}

// CREATE TABLE session_records (
//     id VARCHAR(36) PRIMARY KEY,
//     created_date TIMESTAMP NOT NULL DEFAULT NOW(),
//     started_at TIMESTAMP NOT NULL,
//     ended_at TIMESTAMP NOT NULL,
//     input_language VARCHAR(35),
//     output_language VARCHAR(35),
//     total_duration_seconds INTEGER NOT NULL,
//     segment_duration_seconds INTEGER NOT NULL,
//     stop_reason VARCHAR(20) NOT NULL,
//     error TEXT,
//     summary TEXT,
//     summary_generation BIGINT,
//     summary_log_length INTEGER
// );
