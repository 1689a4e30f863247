package models

import "time"

// Role controls a user's authorization scope.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a marketplace member. A user can both sell (own products)
// and buy (create purchase requests and orders).
type User struct {
	ID             string    `json:"id" bson:"_id,omitempty" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email          string    `json:"email" bson:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password       string    `json:"-" bson:"password" gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash, never serialized
	DisplayName    string    `json:"displayName" bson:"display_name" validate:"required,min=2,max=100"`
	FirstName      string    `json:"firstName" bson:"first_name" validate:"required,max=100"`
	LastName       string    `json:"lastName" bson:"last_name" validate:"required,max=100"`
	PhotoURL       string    `json:"photoURL,omitempty" bson:"photo_url,omitempty" validate:"omitempty,max=500"`
	Phone          string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,max=30"`
	Location       string    `json:"location" bson:"location"`
	Bio            string    `json:"bio,omitempty" bson:"bio,omitempty" validate:"omitempty,max=500"`
	Verified       bool      `json:"verified" bson:"verified"`
	Rating         float64   `json:"rating" bson:"rating" validate:"gte=0,lte=5"`
	TotalSales     int       `json:"totalSales" bson:"total_sales"`
	TotalPurchases int       `json:"totalPurchases" bson:"total_purchases"`
	Role           Role      `json:"role" bson:"role" gorm:"type:varchar(16)" validate:"omitempty,oneof=user admin"`
	CreatedAt      time.Time `json:"createdAt" bson:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updated_at" gorm:"autoUpdateTime"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Sanitize strips the credential before the user is returned to a client.
func (u *User) Sanitize() {
	u.Password = ""
}

// UserSummary is the public subset of a user embedded in joined views
// (request counterparties, order owners).
type UserSummary struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone,omitempty"`
	PhotoURL    string  `json:"photoURL,omitempty"`
	Rating      float64 `json:"rating"`
}

// Summary returns the public view of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Phone:       u.Phone,
		PhotoURL:    u.PhotoURL,
		Rating:      u.Rating,
	}
}
