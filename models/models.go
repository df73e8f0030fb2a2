// Package models defines the gorm schema for the local run-history
// store.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Run represents one tool invocation.
type Run struct {
	ID         uint      `gorm:"primaryKey"`
	StartedAt  time.Time `gorm:"autoCreateTime"`
	FinishedAt *time.Time

	// Invocation details
	Argv string `gorm:"type:text"`
	Std  string `gorm:"type:varchar(20)"`

	// Statistics
	FilesCount  int `gorm:"default:0"`
	FailedCount int `gorm:"default:0"`

	// Relationships
	Files []FileRun `gorm:"foreignKey:RunID"`
}

// FileRun represents one translation unit processed within a run.
type FileRun struct {
	ID    uint `gorm:"primaryKey"`
	RunID uint `gorm:"index"`

	Path    string `gorm:"type:text;not null"`
	OutPath string `gorm:"type:text"`
	Success bool   `gorm:"default:false"`

	// Generation counts
	Records int `gorm:"default:0"`
	Enums   int `gorm:"default:0"`
	Skipped int `gorm:"default:0"`

	// Diagnostics as emitted, for later inspection
	Diagnostics datatypes.JSON `gorm:"type:jsonb"`

	// Checksums for validation
	OriginalSHA1 string `gorm:"type:varchar(40)"`
	ModifiedSHA1 string `gorm:"type:varchar(40)"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName customizations for cleaner names
func (Run) TableName() string     { return "runs" }
func (FileRun) TableName() string { return "file_runs" }
