package models

import "time"

// IfcFile holds the metadata of an uploaded IFC model. FilePath is the public
// URL path (/uploads/ifc/...), not the disk location.
type IfcFile struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FileName   string    `gorm:"not null" json:"fileName"`
	FilePath   string    `gorm:"not null" json:"filePath"`
	Building   *string   `gorm:"index" json:"edificacao"`
	UploadedBy uint      `gorm:"not null" json:"uploadedBy"`
	FileSize   int64     `gorm:"not null" json:"fileSize"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName specifies the table name
func (IfcFile) TableName() string {
	return "ifc_files"
}
