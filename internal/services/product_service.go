package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"marketplace/internal/models"
	"marketplace/internal/policy"
	"marketplace/internal/repositories"
	"marketplace/pkg/cache"
)

// catalogTTL bounds how stale cached catalog reads may get.
const catalogTTL = 5 * time.Minute

// ProductUpdateInput carries the mutable fields of a listing.
type ProductUpdateInput struct {
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"omitempty,max=1000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"omitempty,max=100"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,max=500"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

// ProductService handles business logic related to product listings.
type ProductService struct {
	repo     repositories.ProductRepository
	userRepo repositories.UserRepository
	cache    *cache.Cache // nil disables caching
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, userRepo repositories.UserRepository, c *cache.Cache) *ProductService {
	return &ProductService{repo: repo, userRepo: userRepo, cache: c}
}

// GetAll retrieves products matching the filter, served from the catalog
// cache when possible.
func (s *ProductService) GetAll(filter repositories.ProductFilter) ([]models.Product, error) {
	ctx := context.Background()
	key := cache.ProductListKey(filter.Category, filter.Search, filter.SellerID)

	var cached []models.Product
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	products, err := s.repo.GetAll(filter)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, products, catalogTTL); err != nil {
		log.Printf("Failed to cache product listing: %v", err)
	}
	return products, nil
}

// GetByID retrieves a single product, cache first.
func (s *ProductService) GetByID(id string) (*models.Product, error) {
	ctx := context.Background()
	key := cache.ProductKey(id)

	var cached models.Product
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, product, catalogTTL); err != nil {
		log.Printf("Failed to cache product %s: %v", id, err)
	}
	return product, nil
}

// Create lists a new product owned by the seller. The seller must resolve to
// an existing user.
func (s *ProductService) Create(sellerID string, product *models.Product) error {
	if _, err := s.userRepo.GetByID(sellerID); err != nil {
		return fmt.Errorf("seller %s does not exist: %w", sellerID, err)
	}
	if product.Price < 0 {
		return fmt.Errorf("price must be non-negative: %w", ErrInvalid)
	}
	if product.Stock < 0 {
		return fmt.Errorf("stock must be non-negative: %w", ErrInvalid)
	}

	product.SellerID = sellerID
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.invalidate(product.ID)
	return nil
}

// Update applies the input to an existing product. Only the owning seller or
// an admin may update a listing; ownership never changes.
func (s *ProductService) Update(actor policy.Actor, id string, input ProductUpdateInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !policy.Allows(actor, policy.ProductUpdate, policy.Resource{OwnerID: product.SellerID}) {
		return nil, fmt.Errorf("not authorized to update this product: %w", ErrForbidden)
	}
	if input.Price < 0 || input.Stock < 0 {
		return nil, fmt.Errorf("price and stock must be non-negative: %w", ErrInvalid)
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.Category = input.Category
	product.ImageURL = input.ImageURL
	product.Stock = input.Stock
	product.UpdatedAt = time.Now()

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	s.invalidate(id)
	return product, nil
}

// Delete removes a listing. Only the owning seller or an admin may delete.
func (s *ProductService) Delete(actor policy.Actor, id string) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if !policy.Allows(actor, policy.ProductDelete, policy.Resource{OwnerID: product.SellerID}) {
		return fmt.Errorf("not authorized to delete this product: %w", ErrForbidden)
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

func (s *ProductService) invalidate(id string) {
	ctx := context.Background()
	if err := s.cache.Delete(ctx, cache.ProductKey(id)); err != nil && !errors.Is(err, cache.ErrMiss) {
		log.Printf("Failed to invalidate product cache for %s: %v", id, err)
	}
	if err := s.cache.DeleteByPattern(ctx, cache.ProductListPattern); err != nil {
		log.Printf("Failed to invalidate product listing cache: %v", err)
	}
}
