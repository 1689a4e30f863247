package repositories

import "marketplace/internal/models"

// ProductFilter narrows catalog listings. Zero values mean no filtering.
type ProductFilter struct {
	Category string
	Search   string // case-insensitive match against name and description
	SellerID string
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(filter ProductFilter) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
