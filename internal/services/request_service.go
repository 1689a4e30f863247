package services

import (
	"fmt"
	"log"
	"time"

	"marketplace/internal/models"
	"marketplace/internal/policy"
	"marketplace/internal/repositories"
	"marketplace/pkg/rabbitmq"
)

// CreateRequestInput is the payload for creating a purchase request.
type CreateRequestInput struct {
	ProductID    string               `json:"productId" validate:"required"`
	OfferedPrice float64              `json:"offeredPrice" validate:"gte=0"`
	Message      string               `json:"message" validate:"omitempty,max=500"`
	BuyerContact *models.BuyerContact `json:"buyerContact" validate:"omitempty"`
}

// transition describes one permitted edge of the request state machine:
// the status it leaves from and who may trigger it.
type transition struct {
	from   models.RequestStatus
	action policy.Action
}

// transitions maps each allowed target status to its single permitted edge.
// Accept and reject leave pending and belong to the seller; complete leaves
// accepted and belongs to the buyer. There is no edge out of a terminal
// status and no shortcut from pending straight to completed.
var transitions = map[models.RequestStatus]transition{
	models.RequestAccepted:  {from: models.RequestPending, action: policy.RequestAccept},
	models.RequestRejected:  {from: models.RequestPending, action: policy.RequestReject},
	models.RequestCompleted: {from: models.RequestAccepted, action: policy.RequestComplete},
}

// RequestService governs creation and state transitions of purchase requests.
type RequestService struct {
	requestRepo repositories.PurchaseRequestRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	mqClient    *rabbitmq.Client // nil disables event publishing
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requestRepo repositories.PurchaseRequestRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	mqClient *rabbitmq.Client,
) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		mqClient:    mqClient,
	}
}

// Create opens a new purchase request in pending state. The product must
// exist, and a seller cannot request their own listing. The seller reference
// is denormalized from the product; buyer contact defaults to the buyer's
// profile email/phone when no override is supplied.
func (s *RequestService) Create(buyerID string, input CreateRequestInput) (*models.RequestView, error) {
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}

	if product.SellerID == buyerID {
		return nil, fmt.Errorf("you cannot make a purchase request for your own product: %w", ErrInvalid)
	}

	buyer, err := s.userRepo.GetByID(buyerID)
	if err != nil {
		return nil, fmt.Errorf("buyer %s does not exist: %w", buyerID, err)
	}

	contact := models.BuyerContact{Email: buyer.Email, Phone: buyer.Phone}
	if input.BuyerContact != nil {
		contact = *input.BuyerContact
	}

	now := time.Now()
	request := &models.PurchaseRequest{
		ProductID:    product.ID,
		BuyerID:      buyer.ID,
		SellerID:     product.SellerID,
		Message:      input.Message,
		OfferedPrice: input.OfferedPrice,
		Status:       models.RequestPending,
		BuyerContact: contact,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.requestRepo.Create(request); err != nil {
		return nil, err
	}

	s.publish("request.created", request)

	view := &models.RequestView{PurchaseRequest: *request, Product: product}
	buyerSummary := buyer.Summary()
	view.Buyer = &buyerSummary
	if seller, err := s.userRepo.GetByID(product.SellerID); err == nil {
		sellerSummary := seller.Summary()
		view.Seller = &sellerSummary
	}
	return view, nil
}

// UpdateStatus transitions a request to the target status. The target must be
// a known status, the actor must hold the role the transition belongs to, and
// the request must currently be in the transition's source status. The write
// is conditional on that source status, so concurrent conflicting transitions
// cannot overwrite each other.
func (s *RequestService) UpdateStatus(actor policy.Actor, id string, target models.RequestStatus) (*models.PurchaseRequest, error) {
	if !models.ValidRequestStatus(target) {
		return nil, fmt.Errorf("invalid status '%s': must be accepted, rejected, or completed: %w", target, ErrInvalid)
	}

	request, err := s.requestRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	edge := transitions[target]
	res := policy.Resource{BuyerID: request.BuyerID, SellerID: request.SellerID}
	if !policy.Allows(actor, edge.action, res) {
		switch target {
		case models.RequestCompleted:
			return nil, fmt.Errorf("only the buyer can mark the request as completed: %w", ErrForbidden)
		default:
			return nil, fmt.Errorf("only the seller can accept or reject the request: %w", ErrForbidden)
		}
	}

	if err := s.requestRepo.UpdateStatus(id, edge.from, target); err != nil {
		return nil, err
	}

	request.Status = target
	request.UpdatedAt = time.Now()

	if target == models.RequestCompleted {
		s.recordCompletedSale(request)
	}
	s.publish("request.status_changed", request)

	return request, nil
}

// Get retrieves a single request with product and counterparties resolved.
// Only the buyer, the seller, or an admin may view it.
func (s *RequestService) Get(actor policy.Actor, id string) (*models.RequestView, error) {
	request, err := s.requestRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	res := policy.Resource{BuyerID: request.BuyerID, SellerID: request.SellerID}
	if !policy.Allows(actor, policy.RequestView, res) {
		return nil, fmt.Errorf("you do not have permission to view this purchase request: %w", ErrForbidden)
	}

	view := s.resolve(*request, true, true)
	return &view, nil
}

// ListReceived returns the requests where the caller is the seller, newest
// first, with the product and buyer resolved for display.
func (s *RequestService) ListReceived(sellerID string) ([]models.RequestView, error) {
	requests, err := s.requestRepo.GetBySeller(sellerID)
	if err != nil {
		return nil, err
	}
	views := make([]models.RequestView, 0, len(requests))
	for _, request := range requests {
		views = append(views, s.resolve(request, true, false))
	}
	return views, nil
}

// ListSent returns the requests where the caller is the buyer, newest first,
// with the product and seller resolved for display.
func (s *RequestService) ListSent(buyerID string) ([]models.RequestView, error) {
	requests, err := s.requestRepo.GetByBuyer(buyerID)
	if err != nil {
		return nil, err
	}
	views := make([]models.RequestView, 0, len(requests))
	for _, request := range requests {
		views = append(views, s.resolve(request, false, true))
	}
	return views, nil
}

// resolve joins the product and the requested counterparties onto a request.
// Missing references are tolerated; the field stays nil.
func (s *RequestService) resolve(request models.PurchaseRequest, withBuyer, withSeller bool) models.RequestView {
	view := models.RequestView{PurchaseRequest: request}
	if product, err := s.productRepo.GetByID(request.ProductID); err == nil {
		view.Product = product
	}
	if withBuyer {
		if buyer, err := s.userRepo.GetByID(request.BuyerID); err == nil {
			summary := buyer.Summary()
			view.Buyer = &summary
		}
	}
	if withSeller {
		if seller, err := s.userRepo.GetByID(request.SellerID); err == nil {
			summary := seller.Summary()
			view.Seller = &summary
		}
	}
	return view
}

// recordCompletedSale bumps the aggregate counters on both parties after a
// completed transaction. Failures are logged, not surfaced; the transition
// itself already committed.
func (s *RequestService) recordCompletedSale(request *models.PurchaseRequest) {
	if seller, err := s.userRepo.GetByID(request.SellerID); err == nil {
		seller.TotalSales++
		seller.UpdatedAt = time.Now()
		if err := s.userRepo.Update(seller); err != nil {
			log.Printf("Failed to update seller counters for %s: %v", seller.ID, err)
		}
	}
	if buyer, err := s.userRepo.GetByID(request.BuyerID); err == nil {
		buyer.TotalPurchases++
		buyer.UpdatedAt = time.Now()
		if err := s.userRepo.Update(buyer); err != nil {
			log.Printf("Failed to update buyer counters for %s: %v", buyer.ID, err)
		}
	}
}

func (s *RequestService) publish(eventType string, request *models.PurchaseRequest) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishEvent(eventType, request); err != nil {
		log.Printf("Warning: failed to publish %s event for request %s: %v", eventType, request.ID, err)
	}
}
