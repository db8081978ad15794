package model

import "time"

// MediaAssetType distinguishes uploaded source media from rendered output.
type MediaAssetType string

const (
	MediaAssetTypeUpload MediaAssetType = "upload"
	MediaAssetTypeRender MediaAssetType = "render"
)

// MediaAsset is a file stored in the object store, plus its metadata.
type MediaAsset struct {
	ID                int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID         int64          `gorm:"index;not null" json:"projectId"`
	FileName          string         `gorm:"type:varchar(512);not null" json:"fileName"`
	Type              MediaAssetType `gorm:"type:varchar(16);not null" json:"type"`
	Size              int64          `json:"size"`
	DurationInSeconds float64        `json:"durationInSeconds"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

func (MediaAsset) TableName() string {
	return "media_assets"
}

// RenderedArtifact links a render output file to its project.
type RenderedArtifact struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID    int64     `gorm:"index;not null" json:"projectId"`
	MediaAssetID int64     `gorm:"index;not null" json:"mediaAssetId"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (RenderedArtifact) TableName() string {
	return "rendered_artifacts"
}

// RenderedArtifactInfo is the artifact listing row returned by the API:
// artifact joined with its media asset.
type RenderedArtifactInfo struct {
	MediaAssetID      int64     `json:"mediaAssetId"`
	Title             string    `json:"title"`
	FileName          string    `json:"fileName"`
	Size              int64     `json:"size"`
	DurationInSeconds float64   `json:"durationInSeconds"`
	CreatedAt         time.Time `json:"createdAt"`
}
