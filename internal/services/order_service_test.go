package services_test

import (
	"testing"

	"marketplace/internal/models"
	"marketplace/internal/policy"
	"marketplace/internal/repositories"
	"marketplace/internal/services"

	"github.com/stretchr/testify/assert"
)

func newOrderFixture(t *testing.T) (*services.OrderService, *repositories.MockProductRepository) {
	t.Helper()
	orders := repositories.NewMockOrderRepository()
	products := repositories.NewMockProductRepository()
	return services.NewOrderService(orders, products, nil), products
}

func TestOrderService_CreateTotals(t *testing.T) {
	service, products := newOrderFixture(t)

	a := &models.Product{Name: "Product A", Price: 100.0, Stock: 10, SellerID: "seller-1"}
	b := &models.Product{Name: "Product B", Price: 50.0, Stock: 10, SellerID: "seller-1"}
	assert.NoError(t, products.Create(a))
	assert.NoError(t, products.Create(b))

	order, err := service.Create("buyer-1", services.CreateOrderInput{
		Items: []services.OrderItemInput{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 1},
		},
		ShippingAddress: "1 Test Street",
	})
	assert.NoError(t, err)
	assert.Equal(t, 250.0, order.TotalAmount)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, "buyer-1", order.UserID)
	assert.Len(t, order.Items, 2)

	// Line prices are snapshots of the stored product prices.
	assert.Equal(t, 100.0, order.Items[0].Price)
	assert.Equal(t, 50.0, order.Items[1].Price)
}

func TestOrderService_CreateUnknownProductAborts(t *testing.T) {
	service, products := newOrderFixture(t)

	a := &models.Product{Name: "Product A", Price: 100.0, Stock: 10}
	assert.NoError(t, products.Create(a))

	_, err := service.Create("buyer-1", services.CreateOrderInput{
		Items: []services.OrderItemInput{
			{ProductID: a.ID, Quantity: 1},
			{ProductID: "missing", Quantity: 1},
		},
	})
	assert.Error(t, err)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Contains(t, err.Error(), "product missing not found")
}

func TestOrderService_CreateValidation(t *testing.T) {
	service, products := newOrderFixture(t)

	a := &models.Product{Name: "Product A", Price: 100.0, Stock: 1}
	assert.NoError(t, products.Create(a))

	// No items
	_, err := service.Create("buyer-1", services.CreateOrderInput{})
	assert.ErrorIs(t, err, services.ErrInvalid)

	// Non-positive quantity
	_, err = service.Create("buyer-1", services.CreateOrderInput{
		Items: []services.OrderItemInput{{ProductID: a.ID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, services.ErrInvalid)

	// Insufficient stock
	_, err = service.Create("buyer-1", services.CreateOrderInput{
		Items: []services.OrderItemInput{{ProductID: a.ID, Quantity: 5}},
	})
	assert.ErrorIs(t, err, services.ErrInvalid)
	assert.Contains(t, err.Error(), "insufficient stock")
}

func TestOrderService_Authorization(t *testing.T) {
	service, products := newOrderFixture(t)

	a := &models.Product{Name: "Product A", Price: 10.0, Stock: 10}
	assert.NoError(t, products.Create(a))

	order, err := service.Create("buyer-1", services.CreateOrderInput{
		Items: []services.OrderItemInput{{ProductID: a.ID, Quantity: 1}},
	})
	assert.NoError(t, err)

	owner := policy.Actor{ID: "buyer-1", Role: models.RoleUser}
	stranger := policy.Actor{ID: "other-1", Role: models.RoleUser}
	admin := policy.Actor{ID: "admin-1", Role: models.RoleAdmin}

	// Owner and admin can view; a stranger cannot.
	_, err = service.Get(owner, order.ID)
	assert.NoError(t, err)
	_, err = service.Get(admin, order.ID)
	assert.NoError(t, err)
	_, err = service.Get(stranger, order.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// Listing all orders is admin only.
	_, err = service.List(owner)
	assert.ErrorIs(t, err, services.ErrForbidden)
	all, err := service.List(admin)
	assert.NoError(t, err)
	assert.Len(t, all, 1)

	// Status updates are admin only and must use a known status.
	err = service.UpdateStatus(owner, order.ID, models.OrderCompleted)
	assert.ErrorIs(t, err, services.ErrForbidden)
	err = service.UpdateStatus(admin, order.ID, models.OrderStatus("shipped"))
	assert.ErrorIs(t, err, services.ErrInvalid)
	err = service.UpdateStatus(admin, order.ID, models.OrderCompleted)
	assert.NoError(t, err)

	updated, err := service.Get(admin, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, updated.Status)
}

func TestOrderService_ListForUser(t *testing.T) {
	service, products := newOrderFixture(t)

	a := &models.Product{Name: "Product A", Price: 10.0, Stock: 10}
	assert.NoError(t, products.Create(a))

	_, err := service.Create("buyer-1", services.CreateOrderInput{
		Items: []services.OrderItemInput{{ProductID: a.ID, Quantity: 1}},
	})
	assert.NoError(t, err)
	_, err = service.Create("buyer-2", services.CreateOrderInput{
		Items: []services.OrderItemInput{{ProductID: a.ID, Quantity: 2}},
	})
	assert.NoError(t, err)

	mine, err := service.ListForUser("buyer-1")
	assert.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, "buyer-1", mine[0].UserID)
}
