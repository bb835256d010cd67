package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vyhuholl/order-management-rest-api/pkg/models"
)

type Orders interface {
	Create(ctx context.Context, ownerID int64, items []models.Item, totalPrice decimal.Decimal) (models.Order, error)
	GetByID(ctx context.Context, orderID string, requesterID int64) (models.Order, error)
	UpdateStatus(ctx context.Context, orderID string, requesterID int64, status *models.OrderStatus) (models.Order, error)
	ListByOwner(ctx context.Context, targetUserID, requesterID int64) ([]models.Order, error)
}

type createOrderRequest struct {
	Items      []models.Item   `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type patchOrderRequest struct {
	Status *models.OrderStatus `json:"status"`
}

type CreateOrderHandler struct {
	Orders Orders
}

// ServeHTTP godoc
// @Summary Create an order
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body createOrderRequest true "Order"
// @Success 201 {object} models.Order
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /orders/ [post]
func (h *CreateOrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	o, err := h.Orders.Create(r.Context(), currentUser(r).ID, req.Items, req.TotalPrice)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, o)
}

type GetOrderHandler struct {
	Orders Orders
}

// ServeHTTP godoc
// @Summary Get order by ID
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *GetOrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	o, err := h.Orders.GetByID(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, o)
}

type PatchOrderHandler struct {
	Orders Orders
}

// ServeHTTP godoc
// @Summary Update order status
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param body body patchOrderRequest true "New status"
// @Success 200 {object} models.Order
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /orders/{id} [patch]
func (h *PatchOrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req patchOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	o, err := h.Orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID, req.Status)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, o)
}

type ListOrdersHandler struct {
	Orders Orders
}

// ServeHTTP godoc
// @Summary List orders for a user
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {array} models.Order
// @Failure 403 {object} ErrorResponse
// @Router /orders/user/{user_id} [get]
func (h *ListOrdersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		WriteError(w, r, http.StatusUnprocessableEntity, "user_id must be an integer")
		return
	}

	orders, err := h.Orders.ListByOwner(r.Context(), userID, currentUser(r).ID)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, orders)
}
