package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"marketplace/internal/models"

	"github.com/google/uuid"
)

// MockPurchaseRequestRepository is an in-memory implementation of
// PurchaseRequestRepository.
type MockPurchaseRequestRepository struct {
	requests map[string]models.PurchaseRequest
	mu       sync.RWMutex
}

// NewMockPurchaseRequestRepository creates a new instance of
// MockPurchaseRequestRepository.
func NewMockPurchaseRequestRepository() *MockPurchaseRequestRepository {
	return &MockPurchaseRequestRepository{
		requests: make(map[string]models.PurchaseRequest),
	}
}

// Create adds a new purchase request.
func (r *MockPurchaseRequestRepository) Create(request *models.PurchaseRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	r.requests[request.ID] = *request
	return nil
}

// GetByID returns a purchase request by its ID.
func (r *MockPurchaseRequestRepository) GetByID(id string) (*models.PurchaseRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	request, ok := r.requests[id]
	if !ok {
		return nil, fmt.Errorf("purchase request with ID %s: %w", id, ErrNotFound)
	}
	return &request, nil
}

// GetBySeller returns requests received by a seller, newest first.
func (r *MockPurchaseRequestRepository) GetBySeller(sellerID string) ([]models.PurchaseRequest, error) {
	return r.find(func(req models.PurchaseRequest) bool { return req.SellerID == sellerID }), nil
}

// GetByBuyer returns requests sent by a buyer, newest first.
func (r *MockPurchaseRequestRepository) GetByBuyer(buyerID string) ([]models.PurchaseRequest, error) {
	return r.find(func(req models.PurchaseRequest) bool { return req.BuyerID == buyerID }), nil
}

func (r *MockPurchaseRequestRepository) find(match func(models.PurchaseRequest) bool) []models.PurchaseRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	requests := make([]models.PurchaseRequest, 0)
	for _, req := range r.requests {
		if match(req) {
			requests = append(requests, req)
		}
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests
}

// UpdateStatus transitions a request from one status to another, failing when
// the request is missing or not currently in the from status.
func (r *MockPurchaseRequestRepository) UpdateStatus(id string, from, to models.RequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok {
		return fmt.Errorf("purchase request with ID %s: %w", id, ErrNotFound)
	}
	if request.Status != from {
		return fmt.Errorf("purchase request %s is not %s: %w", id, from, ErrConflict)
	}
	request.Status = to
	request.UpdatedAt = time.Now()
	r.requests[id] = request
	return nil
}
