package order

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/georgemunganga/pharmahub-backend/internal/platform/apperr"
)

func newTestRouter(t *testing.T, repo Repository) *chi.Mux {
	log := zaptest.NewLogger(t)
	router := chi.NewRouter()
	NewHandler(NewService(repo, nil, log), log).RegisterRoutes(router)
	return router
}

func TestHandler_PlaceOrder(t *testing.T) {
	repo := &mockRepository{}
	repo.On("CreateOrder", mock.Anything, mock.Anything).Return(nil)
	router := newTestRouter(t, repo)

	body := `{"customer_id":"` + uuid.NewString() + `","items":[{"vendor_id":"` + uuid.NewString() +
		`","product_name":"Atorvastatin 20mg","quantity":2,"unit_price":7.25}]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders/", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var o Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&o))
	assert.Equal(t, 14.5, o.Total)
}

func TestHandler_PlaceOrder_RejectsInvalidPayload(t *testing.T) {
	router := newTestRouter(t, &mockRepository{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders/",
		strings.NewReader(`{"customer_id":"`+uuid.NewString()+`","items":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_UpdateStatus(t *testing.T) {
	repo := &mockRepository{}
	id := uuid.New()
	repo.On("GetOrderByID", mock.Anything, id.String()).Return(&Order{ID: id, Status: StatusDelivered}, nil)
	router := newTestRouter(t, repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+id.String()+"/status",
		strings.NewReader(`{"status":"shipped"}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_GetOrder_NotFound(t *testing.T) {
	repo := &mockRepository{}
	id := uuid.NewString()
	repo.On("GetOrderByID", mock.Anything, id).Return(nil, apperr.NotFound("order not found"))
	router := newTestRouter(t, repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_ListVendorOrders(t *testing.T) {
	repo := &mockRepository{}
	vendorID := uuid.NewString()
	repo.On("ListOrdersByVendor", mock.Anything, vendorID, SidePurchase, OrderStatus("")).Return(nil, nil)
	router := newTestRouter(t, repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/vendor/"+vendorID+"?side=purchase", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
