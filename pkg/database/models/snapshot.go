package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func init() {
	registerForAutomigration(&Snapshot{})
}

// Snapshot records one aligned pair written to disk.
type Snapshot struct {
	gorm.Model
	UUID       string `gorm:"uniqueIndex"`
	Serial     string `gorm:"index"`
	Sequence   uint64
	Backend    string
	ColorPath  string
	DepthPath  string
	Coverage   float64
	MeanDepth  float64
	MinDepth   float64
	MaxDepth   float64
	CapturedAt time.Time
}

func (s *Snapshot) BeforeCreate(tx *gorm.DB) error {
	if len(s.UUID) == 0 {
		s.UUID = uuid.NewString()
	}
	return nil
}
