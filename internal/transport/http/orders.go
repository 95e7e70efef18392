package http

import (
	"net/http"
	"time"

	"marketbay-be/internal/order"
)

type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type orderResponse struct {
	ID         uint64     `json:"id"`
	ProductID  uint64     `json:"product_id"`
	BuyerID    uint64     `json:"buyer_id"`
	Quantity   uint32     `json:"quantity"`
	TotalPrice uint64     `json:"total_price"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

func toOrderResponse(o *order.Order) orderResponse {
	return orderResponse{
		ID:         o.ID,
		ProductID:  o.ProductID,
		BuyerID:    o.BuyerID,
		Quantity:   o.Quantity,
		TotalPrice: o.TotalPrice,
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

type placeOrderRequest struct {
	BuyerID    uint64 `json:"buyer_id"`
	ProductID  uint64 `json:"product_id"`
	Quantity   uint32 `json:"quantity"`
	TotalPrice uint64 `json:"total_price"`
}

func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	o, err := h.svc.PlaceOrder(r.Context(), order.PlaceOrderInput{
		BuyerID:    req.BuyerID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		TotalPrice: req.TotalPrice,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	o, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

type updateOrderRequest struct {
	ProductID  *uint64 `json:"product_id"`
	Quantity   *uint32 `json:"quantity"`
	TotalPrice *uint64 `json:"total_price"`
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	o, err := h.svc.UpdateOrder(r.Context(), id, order.UpdateOrderInput{
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		TotalPrice: req.TotalPrice,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	o, err := h.svc.DeleteOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	o, err := h.svc.CompleteOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) Dispute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	o, err := h.svc.DisputeOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

type resolveDisputeRequest struct {
	Resolution string `json:"resolution"`
}

func (h *OrderHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req resolveDisputeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	o, err := h.svc.ResolveDispute(r.Context(), id, req.Resolution)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(o))
}
