package models

import "time"

// Product represents a listing put up for sale by a seller.
type Product struct {
	ID          string    `json:"id" bson:"_id,omitempty" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" bson:"name" validate:"required,min=3,max=100"`
	Description string    `json:"description" bson:"description,omitempty" validate:"omitempty,max=1000"`
	Price       float64   `json:"price" bson:"price" validate:"gte=0"`
	Category    string    `json:"category" bson:"category,omitempty" validate:"omitempty,max=100"`
	ImageURL    string    `json:"imageUrl,omitempty" bson:"image_url,omitempty" validate:"omitempty,max=500"`
	Stock       int       `json:"stock" bson:"stock" validate:"gte=0"`
	SellerID    string    `json:"sellerId" bson:"seller_id" gorm:"index;type:varchar(36)"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at" gorm:"autoUpdateTime"`
}
