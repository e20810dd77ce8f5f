package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Page is a content-managed public page. Content is a JSON array of blocks
// (hero, rich text, gallery, ...) rendered by the front end.
type Page struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Slug      string         `json:"slug" gorm:"uniqueIndex;not null;size:150"`
	Title     string         `json:"title" gorm:"not null;size:200"`
	Content   datatypes.JSON `json:"content"`
	Published bool           `json:"published" gorm:"default:false;index"`

	CreatedBy uint `json:"created_by"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Page) TableName() string {
	return "pages"
}

type Facility struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null;size:200"`
	Description string  `json:"description" gorm:"size:2000"`
	ImageURL    *string `json:"image_url" gorm:"size:500"`
	SortOrder   int     `json:"sort_order" gorm:"default:0"`
	Active      bool    `json:"active" gorm:"default:true;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Facility) TableName() string {
	return "facilities"
}

type Project struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200"`
	Description string  `json:"description" gorm:"size:2000"`
	ImageURL    *string `json:"image_url" gorm:"size:500"`
	Active      bool    `json:"active" gorm:"default:true;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Project) TableName() string {
	return "projects"
}

type Achievement struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null;size:200"`
	Description string    `json:"description" gorm:"size:2000"`
	AchievedAt  time.Time `json:"achieved_at"`
	Active      bool      `json:"active" gorm:"default:true;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Achievement) TableName() string {
	return "achievements"
}

type TeamMember struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	Name      string  `json:"name" gorm:"not null;size:100"`
	Position  string  `json:"position" gorm:"not null;size:100"`
	Bio       string  `json:"bio" gorm:"size:2000"`
	PhotoURL  *string `json:"photo_url" gorm:"size:500"`
	SortOrder int     `json:"sort_order" gorm:"default:0"`
	Active    bool    `json:"active" gorm:"default:true;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (TeamMember) TableName() string {
	return "team_members"
}

// SiteSetting is a key-value store for site-wide configuration. A missing key
// degrades to an empty default rather than failing the page.
type SiteSetting struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Key   string `json:"key" gorm:"uniqueIndex;not null;size:100"`
	Value string `json:"value" gorm:"size:4000"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (SiteSetting) TableName() string {
	return "site_settings"
}
