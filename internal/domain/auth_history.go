package domain

import "time"

// AuthHistory is one authentication attempt, successful or not.
// Rows are written best-effort and never updated.
type AuthHistory struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	User      *User     `json:"-" gorm:"foreignKey:UserID"`
	Success   bool      `json:"success" gorm:"not null"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

func (AuthHistory) TableName() string { return "authentication_histories" }
