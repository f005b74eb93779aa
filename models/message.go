package models

import "time"

// CustomerMessage is a note sent by staff to a customer from the admin panel.
type CustomerMessage struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID    uint      `gorm:"not null" json:"sender_id"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	Subject     string    `gorm:"size:200" json:"subject"`
	Body        string    `gorm:"not null" json:"body"`
	IsRead      bool      `gorm:"default:false" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
