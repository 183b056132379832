package models

import (
	"time"

	"gorm.io/datatypes"
)

// Upload is the append-only audit record of a spreadsheet ingestion
type Upload struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	BatchID      string         `gorm:"index" json:"batchId"`
	FileName     string         `gorm:"not null" json:"fileName"`
	FileSize     int64          `gorm:"not null" json:"fileSize"`
	UploadedBy   uint           `gorm:"not null" json:"uploadedBy"`
	TotalRooms   int            `gorm:"default:0" json:"totalSalas"`
	TotalIssues  int            `gorm:"default:0" json:"totalApontamentos"`
	Status       string         `gorm:"not null;default:'PROCESSADO'" json:"status"`
	ErrorMessage string         `gorm:"type:text" json:"errorMessage,omitempty"`
	Details      datatypes.JSON `json:"details,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name
func (Upload) TableName() string {
	return "uploads"
}

// Upload status constants
const (
	UploadStatusProcessed = "PROCESSADO"
	UploadStatusFailed    = "ERRO"
)
