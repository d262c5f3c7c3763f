package domain

import "time"

// Well-known role names. Roles are free-form rows in the roles table; these
// constants only cover the ones the services themselves reference.
const (
	RoleAdmin      = "admin"
	RoleGeneral    = "general"
	RoleSubscriber = "subscriber"
)

type Role struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"size:255;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Role) TableName() string { return "roles" }
