package domain

import "time"

type User struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	Login        string    `json:"login" gorm:"size:255;uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;size:255;not null"`
	FirstName    string    `json:"first_name,omitempty" gorm:"size:50"`
	LastName     string    `json:"last_name,omitempty" gorm:"size:50"`
	RoleID       *string   `json:"role_id,omitempty" gorm:"type:uuid;index"`
	Role         *Role     `json:"role,omitempty" gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
