package repository

import (
	"context"
	"errors"

	"Framecast/model"

	"gorm.io/gorm"
)

// SceneRepository defines scene and element data operations. Scenes always
// come back ordered by scene_number with their elements ordered by
// element_number, matching how the timeline iterates them.
type SceneRepository interface {
	ListWithElements(ctx context.Context, projectID int64) ([]*model.Scene, error)
	GetScene(ctx context.Context, id int64) (*model.Scene, error)
	CreateScene(ctx context.Context, scene *model.Scene) error
	UpdateScene(ctx context.Context, scene *model.Scene) error
	DeleteScene(ctx context.Context, id int64) error

	GetElement(ctx context.Context, id int64) (*model.Element, error)
	CreateElement(ctx context.Context, element *model.Element) error
	UpdateElement(ctx context.Context, element *model.Element) error
	DeleteElement(ctx context.Context, id int64) error
}

type gormSceneRepository struct {
	db *gorm.DB
}

// NewGormSceneRepository creates a GORM-backed scene repository.
func NewGormSceneRepository(db *gorm.DB) SceneRepository {
	return &gormSceneRepository{db: db}
}

func (r *gormSceneRepository) ListWithElements(ctx context.Context, projectID int64) ([]*model.Scene, error) {
	var scenes []*model.Scene
	err := r.db.WithContext(ctx).
		Preload("Elements", func(db *gorm.DB) *gorm.DB {
			return db.Order("element_number ASC")
		}).
		Where("project_id = ?", projectID).
		Order("scene_number ASC").
		Find(&scenes).Error
	return scenes, err
}

func (r *gormSceneRepository) GetScene(ctx context.Context, id int64) (*model.Scene, error) {
	var scene model.Scene
	err := r.db.WithContext(ctx).
		Preload("Elements", func(db *gorm.DB) *gorm.DB {
			return db.Order("element_number ASC")
		}).
		Where("id = ?", id).
		First(&scene).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &scene, nil
}

func (r *gormSceneRepository) CreateScene(ctx context.Context, scene *model.Scene) error {
	return r.db.WithContext(ctx).Create(scene).Error
}

func (r *gormSceneRepository) UpdateScene(ctx context.Context, scene *model.Scene) error {
	return r.db.WithContext(ctx).Omit("Elements").Save(scene).Error
}

// DeleteScene removes the scene and its elements in one transaction.
func (r *gormSceneRepository) DeleteScene(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scene_id = ?", id).Delete(&model.Element{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Scene{}, id).Error
	})
}

func (r *gormSceneRepository) GetElement(ctx context.Context, id int64) (*model.Element, error) {
	var element model.Element
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&element).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &element, nil
}

func (r *gormSceneRepository) CreateElement(ctx context.Context, element *model.Element) error {
	return r.db.WithContext(ctx).Create(element).Error
}

func (r *gormSceneRepository) UpdateElement(ctx context.Context, element *model.Element) error {
	return r.db.WithContext(ctx).Save(element).Error
}

func (r *gormSceneRepository) DeleteElement(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Element{}, id).Error
}
