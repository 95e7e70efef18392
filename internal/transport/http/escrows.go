package http

import (
	"net/http"
	"time"

	"marketbay-be/internal/order"
)

type EscrowHandler struct {
	svc order.Service
}

func NewEscrowHandler(svc order.Service) *EscrowHandler {
	return &EscrowHandler{svc: svc}
}

type escrowResponse struct {
	ID        uint64     `json:"id"`
	OrderID   uint64     `json:"order_id"`
	Amount    uint64     `json:"amount"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func toEscrowResponse(e *order.Escrow) escrowResponse {
	return escrowResponse{
		ID:        e.ID,
		OrderID:   e.OrderID,
		Amount:    e.Amount,
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

type holdEscrowRequest struct {
	OrderID uint64 `json:"order_id"`
	Amount  uint64 `json:"amount"`
}

func (h *EscrowHandler) Hold(w http.ResponseWriter, r *http.Request) {
	var req holdEscrowRequest
	if !decodeBody(w, r, &req) {
		return
	}

	e, err := h.svc.HoldEscrow(r.Context(), req.OrderID, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEscrowResponse(e))
}

func (h *EscrowHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	e, err := h.svc.GetEscrow(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEscrowResponse(e))
}

func (h *EscrowHandler) Release(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	e, err := h.svc.ReleaseEscrow(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEscrowResponse(e))
}

func (h *EscrowHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	e, err := h.svc.RefundEscrow(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEscrowResponse(e))
}
