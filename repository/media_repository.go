package repository

import (
	"context"
	"errors"

	"Framecast/model"

	"gorm.io/gorm"
)

// MediaRepository defines media asset and rendered artifact data operations.
type MediaRepository interface {
	CreateMediaAsset(ctx context.Context, asset *model.MediaAsset) error
	GetMediaAsset(ctx context.Context, id int64) (*model.MediaAsset, error)
	CreateRenderedArtifact(ctx context.Context, artifact *model.RenderedArtifact) error
	// ListArtifactsByProject returns artifact listing rows, newest first.
	ListArtifactsByProject(ctx context.Context, projectID int64) ([]*model.RenderedArtifactInfo, error)
}

type gormMediaRepository struct {
	db *gorm.DB
}

// NewGormMediaRepository creates a GORM-backed media repository.
func NewGormMediaRepository(db *gorm.DB) MediaRepository {
	return &gormMediaRepository{db: db}
}

func (r *gormMediaRepository) CreateMediaAsset(ctx context.Context, asset *model.MediaAsset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *gormMediaRepository) GetMediaAsset(ctx context.Context, id int64) (*model.MediaAsset, error) {
	var asset model.MediaAsset
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &asset, nil
}

func (r *gormMediaRepository) CreateRenderedArtifact(ctx context.Context, artifact *model.RenderedArtifact) error {
	return r.db.WithContext(ctx).Create(artifact).Error
}

func (r *gormMediaRepository) ListArtifactsByProject(ctx context.Context, projectID int64) ([]*model.RenderedArtifactInfo, error) {
	var infos []*model.RenderedArtifactInfo
	err := r.db.WithContext(ctx).
		Table("rendered_artifacts").
		Select(`rendered_artifacts.media_asset_id,
			rendered_artifacts.title,
			rendered_artifacts.created_at,
			media_assets.file_name,
			media_assets.size,
			media_assets.duration_in_seconds`).
		Joins("JOIN media_assets ON media_assets.id = rendered_artifacts.media_asset_id").
		Where("rendered_artifacts.project_id = ?", projectID).
		Order("rendered_artifacts.created_at DESC").
		Scan(&infos).Error
	return infos, err
}
