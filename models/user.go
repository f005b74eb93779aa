package models

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
)

type User struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email         string    `gorm:"unique;not null" json:"email"`
	PasswordHash  string    `gorm:"not null" json:"-"`
	FullName      string    `json:"full_name"`
	Phone         string    `json:"phone"`
	Role          Role      `gorm:"type:VARCHAR(20);default:'customer'" json:"role"`
	EmailVerified bool      `gorm:"default:false" json:"email_verified"`
	Active        bool      `gorm:"default:true" json:"active"`
	Orders        []Order   `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// PendingUser holds a registration until the email link is clicked.
type PendingUser struct {
	ID                uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName          string    `json:"full_name"`
	Email             string    `gorm:"unique;not null" json:"email"`
	Phone             string    `json:"phone"`
	PasswordHash      string    `json:"-"`
	VerificationToken string    `gorm:"uniqueIndex;size:36" json:"-"`
	CreatedAt         time.Time `json:"created_at"`
}
