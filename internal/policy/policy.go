// Package policy centralizes authorization decisions. Handlers and services
// ask whether an (actor, action, resource) triple is permitted instead of
// scattering ownership checks across routes.
package policy

import "marketplace/internal/models"

// Action identifies an operation gated by authorization.
type Action string

const (
	ProductUpdate Action = "product.update"
	ProductDelete Action = "product.delete"

	RequestAccept   Action = "request.accept"
	RequestReject   Action = "request.reject"
	RequestComplete Action = "request.complete"
	RequestView     Action = "request.view"

	OrderView         Action = "order.view"
	OrderList         Action = "order.list"
	OrderUpdateStatus Action = "order.update_status"

	UserList   Action = "user.list"
	UserDelete Action = "user.delete"
)

// Actor is the authenticated caller.
type Actor struct {
	ID   string
	Role models.Role
}

// Resource carries the ownership references of the record an action concerns.
// Only the fields relevant to the action need to be set.
type Resource struct {
	OwnerID  string // product seller or order owner
	BuyerID  string // purchase request buyer
	SellerID string // purchase request seller
}

// Allows reports whether the actor may perform the action on the resource.
//
// Request transitions deliberately have no admin bypass: accept/reject belong
// to the request's seller and complete belongs to the buyer, and nobody else.
func Allows(actor Actor, action Action, res Resource) bool {
	switch action {
	case RequestAccept, RequestReject:
		return actor.ID != "" && actor.ID == res.SellerID
	case RequestComplete:
		return actor.ID != "" && actor.ID == res.BuyerID
	case RequestView:
		return actor.Role == models.RoleAdmin ||
			(actor.ID != "" && (actor.ID == res.BuyerID || actor.ID == res.SellerID))
	case ProductUpdate, ProductDelete, OrderView:
		return actor.Role == models.RoleAdmin || (actor.ID != "" && actor.ID == res.OwnerID)
	case OrderList, OrderUpdateStatus, UserList, UserDelete:
		return actor.Role == models.RoleAdmin
	}
	return false
}
