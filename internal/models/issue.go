package models

import "time"

// Issue is a divergence recorded against a room ("apontamento").
// RoomName is a soft reference to Room.Name and may dangle.
type Issue struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Number     int       `gorm:"not null" json:"numeroApontamento"`
	Date       time.Time `gorm:"column:issue_date;not null;index" json:"data"`
	Building   string    `gorm:"not null;index" json:"edificacao"`
	Floor      string    `gorm:"not null" json:"pavimento"`
	Sector     string    `gorm:"not null" json:"setor"`
	RoomName   string    `gorm:"not null;index" json:"sala"`
	Discipline string    `gorm:"not null" json:"disciplina"`
	Divergence *string   `gorm:"type:text" json:"divergencia"`
	BatchID    string    `gorm:"index" json:"batchId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (Issue) TableName() string {
	return "issues"
}
