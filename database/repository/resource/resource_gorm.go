package resource

import (
	"fmt"

	"domik/models"

	"gorm.io/gorm"
)

// GormResourceRepo implements Repository on the relational store.
type GormResourceRepo struct {
	db *gorm.DB
}

func NewGormResourceRepo(db *gorm.DB) *GormResourceRepo {
	return &GormResourceRepo{db: db}
}

func (r *GormResourceRepo) GetByID(id uint) (*models.Resource, error) {
	var res models.Resource
	if err := r.db.First(&res, id).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch resource %d: %w", id, err)
	}
	return &res, nil
}

func (r *GormResourceRepo) CountEnabled() (int64, error) {
	var count int64
	err := r.db.Model(&models.Resource{}).Where("status = ?", models.ResourceEnabled).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count resources: %w", err)
	}
	return count, nil
}

func (r *GormResourceRepo) ListEnabled(page, perPage int) ([]models.Resource, error) {
	if page < 1 {
		page = 1
	}
	var out []models.Resource
	err := r.db.
		Where("status = ?", models.ResourceEnabled).
		Order("created").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	return out, nil
}

func (r *GormResourceRepo) ListAll() ([]models.Resource, error) {
	var out []models.Resource
	if err := r.db.Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	return out, nil
}

func (r *GormResourceRepo) Create(res *models.Resource) error {
	if err := r.db.Create(res).Error; err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

func (r *GormResourceRepo) Update(res *models.Resource) error {
	if err := r.db.Save(res).Error; err != nil {
		return fmt.Errorf("failed to update resource %d: %w", res.ID, err)
	}
	return nil
}

func (r *GormResourceRepo) Delete(id uint) error {
	if err := r.db.Delete(&models.Image{}, "resource_id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete images of resource %d: %w", id, err)
	}
	if err := r.db.Delete(&models.Resource{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete resource %d: %w", id, err)
	}
	return nil
}

func (r *GormResourceRepo) Images(resourceID uint) ([]models.Image, error) {
	var out []models.Image
	err := r.db.Where("resource_id = ?", resourceID).Order("id").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list images of resource %d: %w", resourceID, err)
	}
	return out, nil
}

func (r *GormResourceRepo) GetImage(id uint) (*models.Image, error) {
	var img models.Image
	if err := r.db.First(&img, id).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch image %d: %w", id, err)
	}
	return &img, nil
}

func (r *GormResourceRepo) CreateImage(img *models.Image) error {
	if err := r.db.Create(img).Error; err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	return nil
}

func (r *GormResourceRepo) DeleteImage(id uint) error {
	if err := r.db.Delete(&models.Image{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete image %d: %w", id, err)
	}
	return nil
}
