package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketbay-be/internal/catalog"
	"marketbay-be/internal/order"
	"marketbay-be/internal/user"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Service mocks ---

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Create(ctx context.Context, input user.CreateUserInput) (*user.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserService) Get(ctx context.Context, id uint64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserService) Update(ctx context.Context, id uint64, input user.UpdateUserInput) (*user.User, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserService) Delete(ctx context.Context, id uint64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserService) Register(ctx context.Context, input user.CreateUserInput, password string) (string, *user.User, error) {
	args := m.Called(ctx, input, password)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*user.User), args.Error(2)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*user.User), args.Error(2)
}

type mockCatalogService struct {
	mock.Mock
}

func (m *mockCatalogService) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*catalog.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockCatalogService) GetProduct(ctx context.Context, id uint64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockCatalogService) UpdateProduct(ctx context.Context, productID, sellerID uint64, input catalog.UpdateProductInput) (*catalog.Product, error) {
	args := m.Called(ctx, productID, sellerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockCatalogService) DeductStock(ctx context.Context, productID uint64, quantity uint32) (*catalog.Product, error) {
	args := m.Called(ctx, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockCatalogService) SetStock(ctx context.Context, productID uint64, quantity uint32) (*catalog.Product, error) {
	args := m.Called(ctx, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockCatalogService) DeleteProduct(ctx context.Context, id uint64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

type mockOrderService struct {
	mock.Mock
}

func (m *mockOrderService) PlaceOrder(ctx context.Context, input order.PlaceOrderInput) (*order.Order, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderService) GetOrder(ctx context.Context, id uint64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderService) UpdateOrder(ctx context.Context, id uint64, input order.UpdateOrderInput) (*order.Order, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderService) DeleteOrder(ctx context.Context, id uint64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderService) CompleteOrder(ctx context.Context, id uint64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderService) DisputeOrder(ctx context.Context, id uint64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderService) ResolveDispute(ctx context.Context, id uint64, resolution string) (*order.Order, error) {
	args := m.Called(ctx, id, resolution)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderService) HoldEscrow(ctx context.Context, orderID, amount uint64) (*order.Escrow, error) {
	args := m.Called(ctx, orderID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Escrow), args.Error(1)
}

func (m *mockOrderService) GetEscrow(ctx context.Context, id uint64) (*order.Escrow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Escrow), args.Error(1)
}

func (m *mockOrderService) ReleaseEscrow(ctx context.Context, id uint64) (*order.Escrow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Escrow), args.Error(1)
}

func (m *mockOrderService) RefundEscrow(ctx context.Context, id uint64) (*order.Escrow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Escrow), args.Error(1)
}

// newTestRouter mounts the same routes as NewRouter without the middleware
// chain, so the rate limiter's shared visitor state stays out of the tests.
func newTestRouter(userSvc user.Service, catalogSvc catalog.Service, orderSvc order.Service) *chi.Mux {
	r := chi.NewRouter()

	users := NewUserHandler(userSvc)
	r.Post("/auth/register", users.Register)
	r.Post("/auth/login", users.Login)
	r.Route("/users", func(r chi.Router) {
		r.Post("/", users.Create)
		r.Get("/{id}", users.Get)
		r.Put("/{id}", users.Update)
		r.Delete("/{id}", users.Delete)
	})

	products := NewProductHandler(catalogSvc)
	r.Route("/products", func(r chi.Router) {
		r.Post("/", products.Create)
		r.Get("/{id}", products.Get)
		r.Put("/{id}", products.Update)
		r.Delete("/{id}", products.Delete)
		r.Put("/{id}/stock", products.SetStock)
	})

	orders := NewOrderHandler(orderSvc)
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orders.Place)
		r.Get("/{id}", orders.Get)
		r.Put("/{id}", orders.Update)
		r.Delete("/{id}", orders.Delete)
		r.Post("/{id}/complete", orders.Complete)
		r.Post("/{id}/dispute", orders.Dispute)
		r.Post("/{id}/resolve", orders.Resolve)
	})

	escrows := NewEscrowHandler(orderSvc)
	r.Route("/escrows", func(r chi.Router) {
		r.Post("/", escrows.Hold)
		r.Get("/{id}", escrows.Get)
		r.Post("/{id}/release", escrows.Release)
		r.Post("/{id}/refund", escrows.Refund)
	})

	return r
}

func doJSON(t *testing.T, h http.HandlerFunc, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func doRouted(t *testing.T, r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func TestOrderHandler_Place(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		svc := new(mockOrderService)
		h := NewOrderHandler(svc)

		svc.On("PlaceOrder", mock.Anything, order.PlaceOrderInput{
			BuyerID: 1, ProductID: 10, Quantity: 3, TotalPrice: 300,
		}).Return(&order.Order{
			ID: 100, ProductID: 10, BuyerID: 1, Quantity: 3,
			TotalPrice: 300, Status: order.StatusPending, CreatedAt: time.Now(),
		}, nil)

		rec := doJSON(t, h.Place, http.MethodPost, "/orders",
			`{"buyer_id":1,"product_id":10,"quantity":3,"total_price":300}`)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp orderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, uint64(100), resp.ID)
		assert.Equal(t, "pending", resp.Status)
	})

	t.Run("UnknownFieldRejected", func(t *testing.T) {
		svc := new(mockOrderService)
		h := NewOrderHandler(svc)

		rec := doJSON(t, h.Place, http.MethodPost, "/orders",
			`{"buyer_id":1,"bogus":true}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "PlaceOrder")
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		svc := new(mockOrderService)
		h := NewOrderHandler(svc)

		svc.On("PlaceOrder", mock.Anything, mock.Anything).
			Return(nil, catalog.ErrInsufficientStock)

		rec := doJSON(t, h.Place, http.MethodPost, "/orders",
			`{"buyer_id":1,"product_id":10,"quantity":99,"total_price":300}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, codeInvalidInput, decodeErr(t, rec).Code)
	})
}

func TestErrorMapping(t *testing.T) {
	router := func(svc order.Service) http.Handler {
		m := new(mockUserService)
		c := new(mockCatalogService)
		return newTestRouter(m, c, svc)
	}

	t.Run("UpdateNonPending_400Verbatim", func(t *testing.T) {
		svc := new(mockOrderService)
		svc.On("UpdateOrder", mock.Anything, uint64(100), mock.Anything).
			Return(nil, order.ErrOrderNotPending)

		rec := doRouted(t, router(svc), http.MethodPut, "/orders/100", `{"quantity":2}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Only pending orders can be updated", decodeErr(t, rec).Error)
	})

	t.Run("ResolveTerminal_400Verbatim", func(t *testing.T) {
		svc := new(mockOrderService)
		svc.On("ResolveDispute", mock.Anything, uint64(100), "Complete").
			Return(nil, order.ErrOrderNotDisputable)

		rec := doRouted(t, router(svc), http.MethodPost, "/orders/100/resolve", `{"resolution":"Complete"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Order is not in a disputable state", decodeErr(t, rec).Error)
	})

	t.Run("RefundReleased_400Verbatim", func(t *testing.T) {
		svc := new(mockOrderService)
		svc.On("RefundEscrow", mock.Anything, uint64(1)).
			Return(nil, order.ErrEscrowNotHeld)

		rec := doRouted(t, router(svc), http.MethodPost, "/escrows/1/refund", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Escrow is not in a held state", decodeErr(t, rec).Error)
	})

	t.Run("MissingOrder_404", func(t *testing.T) {
		svc := new(mockOrderService)
		svc.On("GetOrder", mock.Anything, uint64(999)).
			Return(nil, order.ErrOrderNotFound)

		rec := doRouted(t, router(svc), http.MethodGet, "/orders/999", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, codeNotFound, decodeErr(t, rec).Code)
	})

	t.Run("MissingEscrow_404", func(t *testing.T) {
		svc := new(mockOrderService)
		svc.On("GetEscrow", mock.Anything, uint64(999)).
			Return(nil, order.ErrEscrowNotFound)

		rec := doRouted(t, router(svc), http.MethodGet, "/escrows/999", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("NonNumericID_400", func(t *testing.T) {
		svc := new(mockOrderService)

		rec := doRouted(t, router(svc), http.MethodGet, "/orders/abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "GetOrder")
	})
}

func TestProductHandler_Authorization(t *testing.T) {
	t.Run("NotSeller_403", func(t *testing.T) {
		svc := new(mockCatalogService)
		h := NewProductHandler(svc)

		svc.On("CreateProduct", mock.Anything, mock.Anything).
			Return(nil, catalog.ErrNotSeller)

		rec := doJSON(t, h.Create, http.MethodPost, "/products",
			`{"seller_id":2,"name":"Widget","description":"w","price":100,"stock_quantity":5}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, codeUnauthorized, decodeErr(t, rec).Code)
	})

	t.Run("NotOwner_403", func(t *testing.T) {
		svc := new(mockCatalogService)
		c := newTestRouter(new(mockUserService), svc, new(mockOrderService))

		svc.On("UpdateProduct", mock.Anything, uint64(10), uint64(2), mock.Anything).
			Return(nil, catalog.ErrNotOwner)

		rec := doRouted(t, c, http.MethodPut, "/products/10", `{"seller_id":2,"price":500}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("SetStockZero_400", func(t *testing.T) {
		svc := new(mockCatalogService)
		c := newTestRouter(new(mockUserService), svc, new(mockOrderService))

		svc.On("SetStock", mock.Anything, uint64(10), uint32(0)).
			Return(nil, catalog.ErrInvalidStock)

		rec := doRouted(t, c, http.MethodPut, "/products/10/stock", `{"quantity":0}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserHandler_Auth(t *testing.T) {
	t.Run("Register_201", func(t *testing.T) {
		svc := new(mockUserService)
		h := NewUserHandler(svc)

		svc.On("Register", mock.Anything, user.CreateUserInput{
			Name: "Dewi", Email: "dewi@example.com", Role: user.RoleSeller,
		}, "hunter22").Return("tok123", &user.User{
			ID: 1, Name: "Dewi", Email: "dewi@example.com",
			Role: user.RoleSeller, Reputation: 100, CreatedAt: time.Now(),
		}, nil)

		rec := doJSON(t, h.Register, http.MethodPost, "/auth/register",
			`{"name":"Dewi","email":"dewi@example.com","role":"seller","password":"hunter22"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp authResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "tok123", resp.Token)
		assert.Equal(t, uint8(100), resp.User.Reputation)
	})

	t.Run("BadCredentials_401", func(t *testing.T) {
		svc := new(mockUserService)
		h := NewUserHandler(svc)

		svc.On("Login", mock.Anything, "dewi@example.com", "wrong").
			Return("", nil, user.ErrInvalidCredentials)

		rec := doJSON(t, h.Login, http.MethodPost, "/auth/login",
			`{"email":"dewi@example.com","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("DuplicateEmail_409", func(t *testing.T) {
		svc := new(mockUserService)
		h := NewUserHandler(svc)

		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, user.ErrEmailExists)

		rec := doJSON(t, h.Create, http.MethodPost, "/users",
			`{"name":"Dewi","email":"dewi@example.com","role":"seller"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestRouter_Healthz(t *testing.T) {
	r := NewRouter(new(mockUserService), new(mockCatalogService), new(mockOrderService))

	rec := doRouted(t, r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
