package models

import "time"

// RequestStatus is the lifecycle state of a purchase request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestAccepted  RequestStatus = "accepted"
	RequestRejected  RequestStatus = "rejected"
	RequestCompleted RequestStatus = "completed"
)

// ValidRequestStatus reports whether s is a status a client may request a
// transition to. The initial pending state is never a valid target.
func ValidRequestStatus(s RequestStatus) bool {
	switch s {
	case RequestAccepted, RequestRejected, RequestCompleted:
		return true
	}
	return false
}

// BuyerContact is the contact snapshot captured when a request is created,
// so the seller can reach the buyer even if the profile changes later.
type BuyerContact struct {
	Email string `json:"email" bson:"email" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,max=30"`
}

// PurchaseRequest is an offer from a buyer to a seller for one listing.
// The seller reference is denormalized from the product at creation time.
// Requests are never deleted; they remain as a history record.
type PurchaseRequest struct {
	ID           string        `json:"id" bson:"_id,omitempty" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ProductID    string        `json:"productId" bson:"product_id" gorm:"index;type:varchar(36)" validate:"required"`
	BuyerID      string        `json:"buyerId" bson:"buyer_id" gorm:"index;type:varchar(36)"`
	SellerID     string        `json:"sellerId" bson:"seller_id" gorm:"index;type:varchar(36)"`
	Message      string        `json:"message,omitempty" bson:"message,omitempty" validate:"omitempty,max=500"`
	OfferedPrice float64       `json:"offeredPrice" bson:"offered_price" validate:"gte=0"`
	Status       RequestStatus `json:"status" bson:"status" gorm:"type:varchar(16)"`
	BuyerContact BuyerContact  `json:"buyerContact" bson:"buyer_contact" gorm:"embedded;embeddedPrefix:contact_"`
	CreatedAt    time.Time     `json:"createdAt" bson:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time     `json:"updatedAt" bson:"updated_at" gorm:"autoUpdateTime"`
}

// RequestView is a purchase request with its product and the counterparty
// resolved for display. Received listings resolve the buyer; sent listings
// resolve the seller.
type RequestView struct {
	PurchaseRequest
	Product *Product     `json:"product,omitempty"`
	Buyer   *UserSummary `json:"buyer,omitempty"`
	Seller  *UserSummary `json:"seller,omitempty"`
}
