package models

import "time"

// User backs the external identity of whoever uploads data.
// Standardized: Go (PascalCase) -> DB (snake_case) -> JSON (camelCase)
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OpenID       string    `gorm:"column:open_id;uniqueIndex;not null" json:"openId"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email,omitempty"`
	LoginMethod  string    `json:"loginMethod,omitempty"`
	Role         string    `gorm:"not null;default:'user'" json:"role"`
	LastSignedIn time.Time `json:"lastSignedIn"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// SystemUserID is recorded as uploader while authentication is external
const SystemUserID uint = 1
