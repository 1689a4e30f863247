package repositories

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPurchaseRequestRepository is a MongoDB implementation of
// PurchaseRequestRepository.
type MongoPurchaseRequestRepository struct {
	coll *mongo.Collection
}

// NewMongoPurchaseRequestRepository creates a new MongoPurchaseRequestRepository.
func NewMongoPurchaseRequestRepository(db *mongo.Database) *MongoPurchaseRequestRepository {
	return &MongoPurchaseRequestRepository{coll: db.Collection("purchase_requests")}
}

// Create inserts a new purchase request, generating an ID when none is set.
func (r *MongoPurchaseRequestRepository) Create(request *models.PurchaseRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}

	ctx, cancel := opContext()
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, request); err != nil {
		return fmt.Errorf("failed to create purchase request: %w", err)
	}
	return nil
}

// GetByID retrieves a single purchase request by ID.
func (r *MongoPurchaseRequestRepository) GetByID(id string) (*models.PurchaseRequest, error) {
	ctx, cancel := opContext()
	defer cancel()

	var request models.PurchaseRequest
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&request); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("purchase request with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get purchase request by ID %s: %w", id, err)
	}
	return &request, nil
}

// GetBySeller returns requests received by a seller, newest first.
func (r *MongoPurchaseRequestRepository) GetBySeller(sellerID string) ([]models.PurchaseRequest, error) {
	return r.find(bson.M{"seller_id": sellerID})
}

// GetByBuyer returns requests sent by a buyer, newest first.
func (r *MongoPurchaseRequestRepository) GetByBuyer(buyerID string) ([]models.PurchaseRequest, error) {
	return r.find(bson.M{"buyer_id": buyerID})
}

func (r *MongoPurchaseRequestRepository) find(query bson.M) ([]models.PurchaseRequest, error) {
	ctx, cancel := opContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase requests: %w", err)
	}
	defer cursor.Close(ctx)

	requests := make([]models.PurchaseRequest, 0)
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode purchase requests: %w", err)
	}
	return requests, nil
}

// UpdateStatus transitions a request from one status to another as a single
// conditional write, so racing transitions cannot overwrite each other.
func (r *MongoPurchaseRequestRepository) UpdateStatus(id string, from, to models.RequestStatus) error {
	ctx, cancel := opContext()
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update purchase request status: %w", err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing request from one in the wrong state.
		count, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("failed to update purchase request status: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("purchase request with ID %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("purchase request %s is not %s: %w", id, from, ErrConflict)
	}
	return nil
}
