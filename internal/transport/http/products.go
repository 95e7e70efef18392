package http

import (
	"net/http"
	"time"

	"marketbay-be/internal/catalog"
)

type ProductHandler struct {
	svc catalog.Service
}

func NewProductHandler(svc catalog.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type productResponse struct {
	ID            uint64     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Price         uint64     `json:"price"`
	StockQuantity uint32     `json:"stock_quantity"`
	SellerID      uint64     `json:"seller_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

func toProductResponse(p *catalog.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		SellerID:      p.SellerID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type createProductRequest struct {
	SellerID      uint64 `json:"seller_id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         uint64 `json:"price"`
	StockQuantity uint32 `json:"stock_quantity"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.svc.CreateProduct(r.Context(), catalog.CreateProductInput{
		SellerID:      req.SellerID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(p))
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(p))
}

type updateProductRequest struct {
	SellerID      uint64  `json:"seller_id"`
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Price         *uint64 `json:"price"`
	StockQuantity *uint32 `json:"stock_quantity"`
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.svc.UpdateProduct(r.Context(), id, req.SellerID, catalog.UpdateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := h.svc.DeleteProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(p))
}

type setStockRequest struct {
	Quantity uint32 `json:"quantity"`
}

// SetStock handles inventory management: an absolute stock overwrite.
func (h *ProductHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req setStockRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.svc.SetStock(r.Context(), id, req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(p))
}
