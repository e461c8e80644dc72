package model

import "time"

// PasswordReset is a single-use reset token mailed to a user. Managed with
// GORM, unlike the older hand-written tables.
type PasswordReset struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"userId" gorm:"index;not null"`
	Token     string    `json:"-" gorm:"size:64;uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null"`
	Used      bool      `json:"used" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName keeps the table in line with the rest of the schema naming.
func (PasswordReset) TableName() string {
	return "password_resets"
}
