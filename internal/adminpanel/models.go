package adminpanel

import "time"

// Filmwork is a content catalog entry managed through the admin panel.
type Filmwork struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string     `gorm:"not null;index" json:"title"`
	Description  string     `json:"description,omitempty"`
	CreationDate *time.Time `json:"creation_date,omitempty"`
	Rating       float64    `json:"rating"`
	Type         string     `gorm:"not null" json:"type"`
	Genres       []Genre    `gorm:"many2many:filmwork_genres" json:"genres,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Filmwork) TableName() string { return "filmworks" }

type Genre struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Genre) TableName() string { return "genres" }
