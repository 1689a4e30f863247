package repositories

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPurchaseRequestRepository is a GORM implementation of
// PurchaseRequestRepository.
type GORMPurchaseRequestRepository struct {
	db *gorm.DB
}

// NewGORMPurchaseRequestRepository creates a new instance of
// GORMPurchaseRequestRepository.
func NewGORMPurchaseRequestRepository(db *gorm.DB) *GORMPurchaseRequestRepository {
	return &GORMPurchaseRequestRepository{db: db}
}

// Create creates a new purchase request in the database.
func (r *GORMPurchaseRequestRepository) Create(request *models.PurchaseRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	if err := r.db.Create(request).Error; err != nil {
		return fmt.Errorf("failed to create purchase request: %w", err)
	}
	return nil
}

// GetByID retrieves a single purchase request by its ID from the database.
func (r *GORMPurchaseRequestRepository) GetByID(id string) (*models.PurchaseRequest, error) {
	var request models.PurchaseRequest
	if err := r.db.First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("purchase request with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get purchase request by ID %s: %w", id, err)
	}
	return &request, nil
}

// GetBySeller returns requests received by a seller, newest first.
func (r *GORMPurchaseRequestRepository) GetBySeller(sellerID string) ([]models.PurchaseRequest, error) {
	return r.find("seller_id = ?", sellerID)
}

// GetByBuyer returns requests sent by a buyer, newest first.
func (r *GORMPurchaseRequestRepository) GetByBuyer(buyerID string) ([]models.PurchaseRequest, error) {
	return r.find("buyer_id = ?", buyerID)
}

func (r *GORMPurchaseRequestRepository) find(cond string, arg string) ([]models.PurchaseRequest, error) {
	var requests []models.PurchaseRequest
	if err := r.db.Where(cond, arg).Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to get purchase requests: %w", err)
	}
	return requests, nil
}

// UpdateStatus transitions a request from one status to another as a single
// conditional write, so racing transitions cannot overwrite each other.
func (r *GORMPurchaseRequestRepository) UpdateStatus(id string, from, to models.RequestStatus) error {
	res := r.db.Model(&models.PurchaseRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("failed to update purchase request status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing request from one in the wrong state.
		var count int64
		if err := r.db.Model(&models.PurchaseRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to update purchase request status: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("purchase request with ID %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("purchase request %s is not %s: %w", id, from, ErrConflict)
	}
	return nil
}
