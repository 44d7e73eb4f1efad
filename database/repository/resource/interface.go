package resource

import "domik/models"

// Repository defines persistence operations for resources and their images.
// The booking engine uses only the read side; the admin surface owns writes.
type Repository interface {
	GetByID(id uint) (*models.Resource, error)
	CountEnabled() (int64, error)
	ListEnabled(page, perPage int) ([]models.Resource, error)
	ListAll() ([]models.Resource, error)

	Create(res *models.Resource) error
	Update(res *models.Resource) error
	Delete(id uint) error

	Images(resourceID uint) ([]models.Image, error)
	GetImage(id uint) (*models.Image, error)
	CreateImage(img *models.Image) error
	DeleteImage(id uint) error
}
