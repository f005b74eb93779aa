package models

import "time"

type StaffProfile struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	BusinessName string    `gorm:"size:150;default:'JJ Halal Farms'" json:"business_name"`
	Phone        string    `gorm:"size:20" json:"phone"`
	Location     string    `gorm:"size:150" json:"location"`
	Description  string    `json:"description"`
	Avatar       string    `json:"avatar"`
	CreatedAt    time.Time `json:"created_at"`
}
