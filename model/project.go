package model

import "time"

// Project is the root of the editing model. A project owns exactly one
// orientation and an ordered set of scenes.
type Project struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	IsPublic    bool       `gorm:"default:false" json:"isPublic"`
	State       int8       `gorm:"default:1" json:"state"` // 0=soft deleted, 1=normal
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Orientation *Orientation `gorm:"foreignKey:ProjectID" json:"orientation,omitempty"`
	Scenes      []*Scene     `gorm:"foreignKey:ProjectID" json:"scenes,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}

// Orientation holds the output geometry of a project. One row per project;
// the shape is fixed, the values are editable.
type Orientation struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID int64     `gorm:"uniqueIndex;not null" json:"projectId"`
	Width     int       `gorm:"not null" json:"width"`
	Height    int       `gorm:"not null" json:"height"`
	FPS       int       `gorm:"column:fps;not null" json:"fps"`
	// DurationInSeconds caches the summed scene durations; the timeline is
	// the source of truth, this value is refreshed on scene mutations.
	DurationInSeconds float64   `json:"durationInSeconds"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (Orientation) TableName() string {
	return "orientations"
}
