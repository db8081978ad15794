package model

import "time"

// ElementType distinguishes text from media elements.
type ElementType string

const (
	ElementTypeText  ElementType = "text"
	ElementTypeMedia ElementType = "media"
)

// UntilSceneEnd is the sentinel ToSecond value meaning "visible until the
// parent scene ends".
const UntilSceneEnd float64 = -1

// Element is a positioned, time-bounded piece of content within a scene.
// ElementNumber is unique per scene and defines stacking order.
type Element struct {
	ID            int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	SceneID       int64       `gorm:"index;not null" json:"sceneId"`
	ElementNumber int         `gorm:"not null" json:"elementNumber"`
	Type          ElementType `gorm:"type:varchar(16);not null" json:"type"`

	FromSecond float64 `gorm:"not null" json:"fromSecond"`
	// ToSecond may be UntilSceneEnd (-1); see EffectiveToSecond.
	ToSecond float64 `gorm:"not null;default:-1" json:"toSecond"`

	// Content carries raw markup for text elements; MediaSource carries the
	// URL of the backing asset for media elements.
	Content     string `gorm:"type:text" json:"content"`
	MediaSource string `gorm:"type:varchar(1024)" json:"mediaSource"`

	// Normalized position and size, 0..1 relative to the orientation.
	PosX   float64 `json:"posX"`
	PosY   float64 `json:"posY"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Style holds free-form JSON style attributes (font, color, ...).
	Style string `gorm:"type:text" json:"style"`

	// Symbolic animation names; empty means none.
	EnterAnimation string `gorm:"type:varchar(32)" json:"enterAnimation"`
	ExitAnimation  string `gorm:"type:varchar(32)" json:"exitAnimation"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Element) TableName() string {
	return "elements"
}

// Clone returns a copy of the element. Elements hold no reference types, so
// a shallow copy is a full copy; keep callers going through Clone anyway in
// case that changes.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}

// EffectiveToSecond resolves the UntilSceneEnd sentinel against the parent
// scene's duration.
func (e *Element) EffectiveToSecond(sceneDuration float64) float64 {
	if e.ToSecond == UntilSceneEnd {
		return sceneDuration
	}
	return e.ToSecond
}
