package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// OrderItem represents a single line item within an order. Price is the
// authoritative product price captured at order creation; client-supplied
// prices are ignored.
type OrderItem struct {
	ProductID string  `json:"productId" bson:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" bson:"quantity" validate:"required,gt=0"`
	Price     float64 `json:"price" bson:"price"`
}

// Order represents a priced set of line items placed by a user.
type Order struct {
	ID              string      `json:"id" bson:"_id,omitempty" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID          string      `json:"userId" bson:"user_id" gorm:"index;type:varchar(36)"`
	Items           []OrderItem `json:"items" bson:"items" gorm:"serializer:json"`
	TotalAmount     float64     `json:"totalAmount" bson:"total_amount"`
	Status          OrderStatus `json:"status" bson:"status" gorm:"type:varchar(16)"`
	ShippingAddress string      `json:"shippingAddress,omitempty" bson:"shipping_address,omitempty" validate:"omitempty,max=500"`
	CreatedAt       time.Time   `json:"createdAt" bson:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time   `json:"updatedAt" bson:"updated_at" gorm:"autoUpdateTime"`
}
