package order

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/georgemunganga/pharmahub-backend/internal/modules/summary"
	"github.com/georgemunganga/pharmahub-backend/internal/platform/apperr"
)

type mockRepository struct{ mock.Mock }

func (m *mockRepository) CreateOrder(ctx context.Context, o *Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockRepository) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*Order)
	return o, args.Error(1)
}

func (m *mockRepository) GetOrderByNumber(ctx context.Context, number string) (*Order, error) {
	args := m.Called(ctx, number)
	o, _ := args.Get(0).(*Order)
	return o, args.Error(1)
}

func (m *mockRepository) ListOrdersByVendor(ctx context.Context, vendorID string, side Side, status OrderStatus) ([]*Order, error) {
	args := m.Called(ctx, vendorID, side, status)
	o, _ := args.Get(0).([]*Order)
	return o, args.Error(1)
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id string, from, to OrderStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

type mockRefresher struct{ mock.Mock }

func (m *mockRefresher) RefreshVendorSummary(ctx context.Context, vendorID string) (*summary.VendorSummary, error) {
	args := m.Called(ctx, vendorID)
	s, _ := args.Get(0).(*summary.VendorSummary)
	return s, args.Error(1)
}

type OrderServiceSuite struct {
	suite.Suite
	repo      *mockRepository
	refresher *mockRefresher
	service   Service
	buyer     uuid.UUID
	seller    uuid.UUID
}

func (s *OrderServiceSuite) SetupTest() {
	s.repo = &mockRepository{}
	s.refresher = &mockRefresher{}
	s.service = NewService(s.repo, s.refresher, zaptest.NewLogger(s.T()))
	s.buyer = uuid.New()
	s.seller = uuid.New()
}

func (s *OrderServiceSuite) TearDownTest() {
	s.repo.AssertExpectations(s.T())
	s.refresher.AssertExpectations(s.T())
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceSuite))
}

func (s *OrderServiceSuite) TestPlaceOrder() {
	s.repo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
	s.refresher.On("RefreshVendorSummary", mock.Anything, s.buyer.String()).Return(&summary.VendorSummary{}, nil)
	s.refresher.On("RefreshVendorSummary", mock.Anything, s.seller.String()).Return(&summary.VendorSummary{}, nil)

	o, err := s.service.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerID: s.buyer.String(),
		Items: []CartItem{
			{VendorID: s.seller.String(), ProductName: "Amoxicillin 500mg", NDCCode: "0093-3109-01", Quantity: 3, UnitPrice: 12.5},
			{VendorID: s.seller.String(), ProductName: "Lisinopril 10mg", Quantity: 1, UnitPrice: 4.99},
		},
	})
	s.Require().NoError(err)
	s.Equal(StatusPending, o.Status)
	s.Equal(42.49, o.Total)
	s.Len(o.Items, 2)
	s.Equal(37.5, o.Items[0].LineTotal)
	s.Equal(o.ID, o.Items[0].OrderID)
	s.Regexp(`^ORD-\d{8}-[0-9A-F]{6}$`, o.OrderNumber)
}

func (s *OrderServiceSuite) TestPlaceOrder_Validation() {
	tests := []struct {
		name string
		req  PlaceOrderRequest
	}{
		{"no items", PlaceOrderRequest{CustomerID: s.buyer.String()}},
		{"bad customer", PlaceOrderRequest{CustomerID: "x", Items: []CartItem{{VendorID: s.seller.String(), Quantity: 1}}}},
		{"zero quantity", PlaceOrderRequest{CustomerID: s.buyer.String(), Items: []CartItem{{VendorID: s.seller.String()}}}},
		{"self purchase", PlaceOrderRequest{CustomerID: s.buyer.String(), Items: []CartItem{{VendorID: s.buyer.String(), Quantity: 1}}}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.PlaceOrder(context.Background(), tt.req)
			s.True(apperr.HasCode(err, apperr.CodeValidation), err)
		})
	}
}

func (s *OrderServiceSuite) TestUpdateStatus_RefreshesEveryVendor() {
	id := uuid.New()
	o := &Order{ID: id, CustomerID: s.buyer, Status: StatusShipped, Items: []*OrderItem{{VendorID: s.seller}}}
	s.repo.On("GetOrderByID", mock.Anything, id.String()).Return(o, nil)
	s.repo.On("UpdateStatus", mock.Anything, id.String(), StatusShipped, StatusDelivered).Return(nil)
	s.refresher.On("RefreshVendorSummary", mock.Anything, s.buyer.String()).Return(&summary.VendorSummary{}, nil)
	s.refresher.On("RefreshVendorSummary", mock.Anything, s.seller.String()).
		Return(nil, errors.New("redis unavailable"))

	got, err := s.service.UpdateStatus(context.Background(), id.String(), UpdateStatusRequest{Status: "DELIVERED"})
	s.Require().NoError(err, "refresh failures do not fail the status change")
	s.Equal(StatusDelivered, got.Status)
}

func (s *OrderServiceSuite) TestUpdateStatus_RefreshSurvivesCancelledRequest() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id := uuid.New()
	o := &Order{ID: id, CustomerID: s.buyer, Status: StatusShipped, Items: []*OrderItem{{VendorID: s.seller}}}
	s.repo.On("GetOrderByID", mock.Anything, id.String()).Return(o, nil)
	s.repo.On("UpdateStatus", mock.Anything, id.String(), StatusShipped, StatusDelivered).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil)

	live := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
	s.refresher.On("RefreshVendorSummary", live, s.buyer.String()).Return(&summary.VendorSummary{}, nil).Once()
	s.refresher.On("RefreshVendorSummary", live, s.seller.String()).Return(&summary.VendorSummary{}, nil).Once()

	got, err := s.service.UpdateStatus(ctx, id.String(), UpdateStatusRequest{Status: "delivered"})
	s.Require().NoError(err)
	s.Equal(StatusDelivered, got.Status)
	s.Error(ctx.Err())
}

func (s *OrderServiceSuite) TestUpdateStatus_InvalidTransition() {
	id := uuid.New()
	s.repo.On("GetOrderByID", mock.Anything, id.String()).
		Return(&Order{ID: id, CustomerID: s.buyer, Status: StatusDelivered}, nil)

	_, err := s.service.UpdateStatus(context.Background(), id.String(), UpdateStatusRequest{Status: "pending"})
	s.True(apperr.HasCode(err, apperr.CodeInvalidTransition))
	s.repo.AssertNotCalled(s.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *OrderServiceSuite) TestUpdateStatus_UnknownStatus() {
	id := uuid.New()
	s.repo.On("GetOrderByID", mock.Anything, id.String()).
		Return(&Order{ID: id, CustomerID: s.buyer, Status: StatusPending}, nil)

	_, err := s.service.UpdateStatus(context.Background(), id.String(), UpdateStatusRequest{Status: "lost"})
	s.True(apperr.HasCode(err, apperr.CodeValidation))
}

func (s *OrderServiceSuite) TestUpdateStatus_ConcurrentChange() {
	id := uuid.New()
	s.repo.On("GetOrderByID", mock.Anything, id.String()).
		Return(&Order{ID: id, CustomerID: s.buyer, Status: StatusPending}, nil)
	s.repo.On("UpdateStatus", mock.Anything, id.String(), StatusPending, StatusConfirmed).
		Return(apperr.ConcurrentModification("order is no longer pending"))

	_, err := s.service.UpdateStatus(context.Background(), id.String(), UpdateStatusRequest{Status: "confirmed"})
	s.True(apperr.Retryable(err))
}

func (s *OrderServiceSuite) TestCancelOrder() {
	id := uuid.New()
	s.repo.On("GetOrderByID", mock.Anything, id.String()).
		Return(&Order{ID: id, CustomerID: s.buyer, Status: StatusConfirmed}, nil)
	s.repo.On("UpdateStatus", mock.Anything, id.String(), StatusConfirmed, StatusCancelled).Return(nil)
	s.refresher.On("RefreshVendorSummary", mock.Anything, s.buyer.String()).Return(&summary.VendorSummary{}, nil)

	got, err := s.service.CancelOrder(context.Background(), id.String())
	s.Require().NoError(err)
	s.Equal(StatusCancelled, got.Status)
}

func (s *OrderServiceSuite) TestListVendorOrders() {
	s.repo.On("ListOrdersByVendor", mock.Anything, s.seller.String(), SideSell, StatusPending).Return([]*Order{{}}, nil)

	orders, err := s.service.ListVendorOrders(context.Background(), s.seller.String(), SideSell, "PENDING")
	s.Require().NoError(err)
	s.Len(orders, 1)

	_, err = s.service.ListVendorOrders(context.Background(), s.seller.String(), "both", "")
	s.True(apperr.HasCode(err, apperr.CodeValidation))
}

func TestOrderVendorIDs(t *testing.T) {
	buyer, a, b := uuid.New(), uuid.New(), uuid.New()
	o := &Order{CustomerID: buyer, Items: []*OrderItem{{VendorID: a}, {VendorID: b}, {VendorID: a}}}
	assert.Equal(t, []uuid.UUID{buyer, a, b}, o.VendorIDs())
}

func TestNewService_NilRefresher(t *testing.T) {
	repo := &mockRepository{}
	repo.On("CreateOrder", mock.Anything, mock.Anything).Return(nil)
	svc := NewService(repo, nil, zaptest.NewLogger(t))

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerID: uuid.NewString(),
		Items:      []CartItem{{VendorID: uuid.NewString(), ProductName: "Metformin", Quantity: 1, UnitPrice: 3}},
	})
	require.NoError(t, err)
}
