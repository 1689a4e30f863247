package services_test

import (
	"testing"

	"marketplace/internal/models"
	"marketplace/internal/policy"
	"marketplace/internal/repositories"
	"marketplace/internal/services"

	"github.com/stretchr/testify/assert"
)

type requestFixture struct {
	service  *services.RequestService
	requests *repositories.MockPurchaseRequestRepository
	users    *repositories.MockUserRepository
	seller   *models.User
	buyer    *models.User
	product  *models.Product
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()

	users := repositories.NewMockUserRepository()
	products := repositories.NewMockProductRepository()
	requests := repositories.NewMockPurchaseRequestRepository()

	seller := &models.User{Email: "seller@example.com", DisplayName: "Seller", Phone: "111-222"}
	buyer := &models.User{Email: "buyer@example.com", DisplayName: "Buyer", Phone: "333-444"}
	assert.NoError(t, users.Create(seller))
	assert.NoError(t, users.Create(buyer))

	product := &models.Product{Name: "Vintage Camera", Price: 150.0, Stock: 1, SellerID: seller.ID}
	assert.NoError(t, products.Create(product))

	return &requestFixture{
		service:  services.NewRequestService(requests, products, users, nil),
		requests: requests,
		users:    users,
		seller:   seller,
		buyer:    buyer,
		product:  product,
	}
}

func actorFor(u *models.User) policy.Actor {
	return policy.Actor{ID: u.ID, Role: u.Role}
}

func TestRequestService_Create(t *testing.T) {
	f := newRequestFixture(t)

	view, err := f.service.Create(f.buyer.ID, services.CreateRequestInput{
		ProductID:    f.product.ID,
		OfferedPrice: 120.0,
		Message:      "Would you take 120?",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.RequestPending, view.Status)
	assert.Equal(t, f.buyer.ID, view.BuyerID)
	assert.Equal(t, f.seller.ID, view.SellerID)
	assert.NotEmpty(t, view.ID)

	// Contact defaults to the buyer's profile when no override is given.
	assert.Equal(t, "buyer@example.com", view.BuyerContact.Email)
	assert.Equal(t, "333-444", view.BuyerContact.Phone)

	// Product and counterparties are resolved on the view.
	assert.NotNil(t, view.Product)
	assert.Equal(t, f.product.ID, view.Product.ID)
	assert.NotNil(t, view.Buyer)
	assert.NotNil(t, view.Seller)
}

func TestRequestService_CreateContactOverride(t *testing.T) {
	f := newRequestFixture(t)

	view, err := f.service.Create(f.buyer.ID, services.CreateRequestInput{
		ProductID:    f.product.ID,
		BuyerContact: &models.BuyerContact{Email: "alt@example.com", Phone: "999-000"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "alt@example.com", view.BuyerContact.Email)
	assert.Equal(t, "999-000", view.BuyerContact.Phone)
}

func TestRequestService_CreateOwnProductRejected(t *testing.T) {
	f := newRequestFixture(t)

	_, err := f.service.Create(f.seller.ID, services.CreateRequestInput{ProductID: f.product.ID})
	assert.Error(t, err)
	assert.ErrorIs(t, err, services.ErrInvalid)
	assert.Contains(t, err.Error(), "your own product")
}

func TestRequestService_CreateUnknownProduct(t *testing.T) {
	f := newRequestFixture(t)

	_, err := f.service.Create(f.buyer.ID, services.CreateRequestInput{ProductID: "missing"})
	assert.Error(t, err)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestRequestService_AcceptThenComplete(t *testing.T) {
	f := newRequestFixture(t)

	view, err := f.service.Create(f.buyer.ID, services.CreateRequestInput{ProductID: f.product.ID})
	assert.NoError(t, err)

	// Seller accepts
	updated, err := f.service.UpdateStatus(actorFor(f.seller), view.ID, models.RequestAccepted)
	assert.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, updated.Status)

	// Buyer completes
	updated, err = f.service.UpdateStatus(actorFor(f.buyer), view.ID, models.RequestCompleted)
	assert.NoError(t, err)
	assert.Equal(t, models.RequestCompleted, updated.Status)

	// Completion bumps the aggregate counters on both parties.
	seller, err := f.users.GetByID(f.seller.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, seller.TotalSales)
	buyer, err := f.users.GetByID(f.buyer.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, buyer.TotalPurchases)
}

func TestRequestService_OnlySellerAcceptsOrRejects(t *testing.T) {
	f := newRequestFixture(t)

	view, err := f.service.Create(f.buyer.ID, services.CreateRequestInput{ProductID: f.product.ID})
	assert.NoError(t, err)

	third := &models.User{Email: "third@example.com", DisplayName: "Third"}
	assert.NoError(t, f.users.Create(third))

	// The buyer cannot accept their own request.
	_, err = f.service.UpdateStatus(actorFor(f.buyer), view.ID, models.RequestAccepted)
	assert.ErrorIs(t, err, services.ErrForbidden)
	assert.Contains(t, err.Error(), "only the seller can accept or reject the request")

	// A third user cannot accept either.
	_, err = f.service.UpdateStatus(actorFor(third), view.ID, models.RequestAccepted)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// Nor reject.
	_, err = f.service.UpdateStatus(actorFor(third), view.ID, models.RequestRejected)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// The request is still pending after all denied attempts.
	stored, err := f.requests.GetByID(view.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.RequestPending, stored.Status)
}

func TestRequestService_OnlyBuyerCompletes(t *testing.T) {
	f := newRequestFixture(t)

	view, err := f.service.Create(f.buyer.ID, services.CreateRequestInput{ProductID: f.product.ID})
	assert.NoError(t, err)
	_, err = f.service.UpdateStatus(actorFor(f.seller), view.ID, models.RequestAccepted)
	assert.NoError(t, err)

	// The seller cannot mark it completed.
	_, err = f.service.UpdateStatus(actorFor(f.seller), view.ID, models.RequestCompleted)
	assert.ErrorIs(t, err, services.ErrForbidden)
	assert.Contains(t, err.Error(), "only the buyer can mark the request as completed")

	stored, err := f.requests.GetByID(view.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, stored.Status)
}

func TestRequestService_UnknownStatusRejected(t *testing.T) {
	f := newRequestFixture(t)

	view, err := f.service.Create(f.buyer.ID, services.CreateRequestInput{ProductID: f.product.ID})
	assert.NoError(t, err)

	_, err = f.service.UpdateStatus(actorFor(f.seller), view.ID, models.RequestStatus("cancelled"))
	assert.ErrorIs(t, err, services.ErrInvalid)

	// "pending" is the initial state, never a transition target.
	_, err = f.service.UpdateStatus(actorFor(f.seller), view.ID, models.RequestPending)
	assert.ErrorIs(t, err, services.ErrInvalid)

	stored, err := f.requests.GetByID(view.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.RequestPending, stored.Status)
}

func TestRequestService_TransitionOrderEnforced(t *testing.T) {
	f := newRequestFixture(t)

	view, err := f.service.Create(f.buyer.ID, services.CreateRequestInput{ProductID: f.product.ID})
	assert.NoError(t, err)

	// A pending request cannot jump straight to completed.
	_, err = f.service.UpdateStatus(actorFor(f.buyer), view.ID, models.RequestCompleted)
	assert.ErrorIs(t, err, repositories.ErrConflict)

	// Reject it, then verify rejected is terminal.
	_, err = f.service.UpdateStatus(actorFor(f.seller), view.ID, models.RequestRejected)
	assert.NoError(t, err)

	_, err = f.service.UpdateStatus(actorFor(f.seller), view.ID, models.RequestAccepted)
	assert.ErrorIs(t, err, repositories.ErrConflict)

	stored, err := f.requests.GetByID(view.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.RequestRejected, stored.Status)
}

func TestRequestService_CompletedIsTerminal(t *testing.T) {
	f := newRequestFixture(t)

	view, err := f.service.Create(f.buyer.ID, services.CreateRequestInput{ProductID: f.product.ID})
	assert.NoError(t, err)
	_, err = f.service.UpdateStatus(actorFor(f.seller), view.ID, models.RequestAccepted)
	assert.NoError(t, err)
	_, err = f.service.UpdateStatus(actorFor(f.buyer), view.ID, models.RequestCompleted)
	assert.NoError(t, err)

	// Completing twice conflicts; the counters are not bumped again.
	_, err = f.service.UpdateStatus(actorFor(f.buyer), view.ID, models.RequestCompleted)
	assert.ErrorIs(t, err, repositories.ErrConflict)

	seller, err := f.users.GetByID(f.seller.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, seller.TotalSales)
}

func TestRequestService_GetScoping(t *testing.T) {
	f := newRequestFixture(t)

	view, err := f.service.Create(f.buyer.ID, services.CreateRequestInput{ProductID: f.product.ID})
	assert.NoError(t, err)

	third := &models.User{Email: "third@example.com", DisplayName: "Third"}
	assert.NoError(t, f.users.Create(third))
	admin := &models.User{Email: "admin@example.com", DisplayName: "Admin", Role: models.RoleAdmin}
	assert.NoError(t, f.users.Create(admin))

	// Participants and admins can view; strangers cannot.
	_, err = f.service.Get(actorFor(f.buyer), view.ID)
	assert.NoError(t, err)
	_, err = f.service.Get(actorFor(f.seller), view.ID)
	assert.NoError(t, err)
	_, err = f.service.Get(actorFor(admin), view.ID)
	assert.NoError(t, err)
	_, err = f.service.Get(actorFor(third), view.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestRequestService_Listings(t *testing.T) {
	f := newRequestFixture(t)

	_, err := f.service.Create(f.buyer.ID, services.CreateRequestInput{ProductID: f.product.ID})
	assert.NoError(t, err)

	// Received: seller sees it with the buyer resolved.
	received, err := f.service.ListReceived(f.seller.ID)
	assert.NoError(t, err)
	assert.Len(t, received, 1)
	assert.NotNil(t, received[0].Buyer)
	assert.Equal(t, f.buyer.ID, received[0].Buyer.ID)
	assert.NotNil(t, received[0].Product)

	// Sent: buyer sees it with the seller resolved.
	sent, err := f.service.ListSent(f.buyer.ID)
	assert.NoError(t, err)
	assert.Len(t, sent, 1)
	assert.NotNil(t, sent[0].Seller)
	assert.Equal(t, f.seller.ID, sent[0].Seller.ID)

	// The buyer has received nothing and the seller has sent nothing.
	none, err := f.service.ListReceived(f.buyer.ID)
	assert.NoError(t, err)
	assert.Empty(t, none)
	none, err = f.service.ListSent(f.seller.ID)
	assert.NoError(t, err)
	assert.Empty(t, none)
}
