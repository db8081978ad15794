package repository

import (
	"context"
	"errors"
	"time"

	"Framecast/model"

	"gorm.io/gorm"
)

// ProjectRepository defines project and orientation data operations.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	List(ctx context.Context) ([]*model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	SoftDelete(ctx context.Context, id int64) error

	GetOrientation(ctx context.Context, projectID int64) (*model.Orientation, error)
	UpdateOrientation(ctx context.Context, orientation *model.Orientation) error
}

type gormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a GORM-backed project repository.
func NewGormProjectRepository(db *gorm.DB) ProjectRepository {
	return &gormProjectRepository{db: db}
}

func (r *gormProjectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// GetByID returns the project with its orientation, or nil when no live
// project with that id exists.
func (r *gormProjectRepository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Orientation").
		Where("id = ? AND state = ?", id, 1).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

func (r *gormProjectRepository) List(ctx context.Context) ([]*model.Project, error) {
	var projects []*model.Project
	err := r.db.WithContext(ctx).
		Preload("Orientation").
		Where("state = ?", 1).
		Order("updated_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *gormProjectRepository) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// SoftDelete flips the project state and stamps deleted_at; rows survive.
func (r *gormProjectRepository) SoftDelete(ctx context.Context, id int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"state": 0, "deleted_at": &now}).Error
}

func (r *gormProjectRepository) GetOrientation(ctx context.Context, projectID int64) (*model.Orientation, error) {
	var orientation model.Orientation
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		First(&orientation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &orientation, nil
}

func (r *gormProjectRepository) UpdateOrientation(ctx context.Context, orientation *model.Orientation) error {
	return r.db.WithContext(ctx).Save(orientation).Error
}
