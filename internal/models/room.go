package models

import "time"

// Room is a physical space tracked for as-built verification ("sala").
// Name is the natural key that issues refer to.
type Room struct {
	ID                uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Building          string     `gorm:"not null;index" json:"edificacao"`
	Floor             string     `gorm:"not null" json:"pavimento"`
	Sector            string     `gorm:"not null" json:"setor"`
	Name              string     `gorm:"not null;index" json:"nome"`
	RoomNumber        string     `gorm:"not null" json:"numeroSala"`
	Augin             int        `gorm:"default:0" json:"augin"`
	Status            string     `gorm:"not null;default:'PENDENTE'" json:"status"`
	StatusRA          *string    `gorm:"column:status_ra" json:"statusRA"`
	VerifiedAt        *time.Time `json:"dataVerificada"`
	MissingDiscipline *string    `json:"faltouDisciplina"`
	Review            *string    `json:"revisar"`
	Notes             *string    `gorm:"type:text" json:"obs"`
	IfcExpressID      *int       `json:"ifcExpressId"`
	BatchID           string     `gorm:"index" json:"batchId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (Room) TableName() string {
	return "rooms"
}

// Default room status when the spreadsheet leaves it blank
const RoomStatusPending = "PENDENTE"
