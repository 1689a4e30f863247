package repositories

import "marketplace/internal/models"

// PurchaseRequestRepository defines the interface for purchase request data
// access. Requests are append-and-mutate only; there is no delete.
type PurchaseRequestRepository interface {
	Create(request *models.PurchaseRequest) error
	GetByID(id string) (*models.PurchaseRequest, error)
	// GetBySeller returns requests received by a seller, newest first.
	GetBySeller(sellerID string) ([]models.PurchaseRequest, error)
	// GetByBuyer returns requests sent by a buyer, newest first.
	GetByBuyer(buyerID string) ([]models.PurchaseRequest, error)
	// UpdateStatus transitions a request from one status to another as a
	// single conditional write. It returns ErrNotFound if no request has the
	// given ID, and ErrConflict if the request exists but is not currently in
	// the from status (wrong state, or a concurrent transition won).
	UpdateStatus(id string, from, to models.RequestStatus) error
}
