package model

import "time"

// Scene is a time-bounded segment of a project, authored in seconds.
// SceneNumber is unique per project and defines playback order.
type Scene struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID         int64     `gorm:"index;not null" json:"projectId"`
	SceneNumber       int       `gorm:"not null" json:"sceneNumber"`
	DurationInSeconds float64   `gorm:"not null" json:"durationInSeconds"`
	Title             string    `gorm:"type:varchar(255)" json:"title"`
	Script            string    `gorm:"type:text" json:"script"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	Elements []*Element `gorm:"foreignKey:SceneID" json:"elements,omitempty"`
}

func (Scene) TableName() string {
	return "scenes"
}

// Clone returns a deep copy of the scene, elements included.
func (s *Scene) Clone() *Scene {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Elements = make([]*Element, len(s.Elements))
	for i, el := range s.Elements {
		cp.Elements[i] = el.Clone()
	}
	return &cp
}
