package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	dombook "example.com/bookstore/internal/domain/book"
	domcart "example.com/bookstore/internal/domain/cart"
	domorder "example.com/bookstore/internal/domain/order"
	"example.com/bookstore/internal/domain/payment"
	domuser "example.com/bookstore/internal/domain/user"
	authuc "example.com/bookstore/internal/usecase/auth"
	bookuc "example.com/bookstore/internal/usecase/book"
	cartuc "example.com/bookstore/internal/usecase/cart"
	checkoutuc "example.com/bookstore/internal/usecase/checkout"
	orderuc "example.com/bookstore/internal/usecase/order"
)

type API struct {
	authSvc     *authuc.Service
	bookSvc     *bookuc.Service
	cartSvc     *cartuc.Service
	checkoutSvc *checkoutuc.Service
	orderSvc    *orderuc.Service
	validator   *validator.Validate
	tokenSvc    authuc.TokenService
}

type Dependencies struct {
	AuthService     *authuc.Service
	BookService     *bookuc.Service
	CartService     *cartuc.Service
	CheckoutService *checkoutuc.Service
	OrderService    *orderuc.Service
	TokenService    authuc.TokenService
}

func NewAPI(deps Dependencies) *API {
	return &API{
		authSvc:     deps.AuthService,
		bookSvc:     deps.BookService,
		cartSvc:     deps.CartService,
		checkoutSvc: deps.CheckoutService,
		orderSvc:    deps.OrderService,
		tokenSvc:    deps.TokenService,
		validator:   validator.New(),
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.AllowContentType("application/json", "text/plain"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", a.handleRegister)
		r.Post("/auth/login", a.handleLogin)
		r.Get("/books", a.handleListBooks)
		r.Get("/books/{id}", a.handleGetBook)

		r.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware)

			pr.Route("/me/cart", func(cr chi.Router) {
				cr.Get("/", a.handleGetCart)
				cr.Delete("/", a.handleClearCart)
				cr.Post("/items", a.handleAddCartItem)
				cr.Put("/items/{bookID}", a.handleUpdateCartItem)
				cr.Delete("/items/{bookID}", a.handleRemoveCartItem)
				cr.Post("/coupon", a.handleApplyCoupon)
				cr.Delete("/coupon", a.handleRemoveCoupon)
			})

			pr.Post("/me/checkout", a.handleCheckout)
			pr.Post("/me/checkout/verify", a.handleVerifyPayment)

			pr.Get("/me/orders", a.handleListMyOrders)
			pr.Get("/me/orders/{id}", a.handleGetMyOrder)
			pr.Post("/me/orders/{id}/cancel", a.handleCancelOrder)
		})

		r.Group(func(ar chi.Router) {
			ar.Use(a.authMiddleware)
			ar.Use(a.requireRoles(domuser.RoleCodeAdmin))

			ar.Route("/admin", func(admin chi.Router) {
				admin.Route("/books", func(rr chi.Router) {
					rr.Post("/", a.handleCreateBook)
					rr.Put("/{id}", a.handleUpdateBook)
					rr.Delete("/{id}", a.handleDeleteBook)
				})

				admin.Route("/orders", func(rr chi.Router) {
					rr.Get("/", a.handleListOrders)
					rr.Get("/{id}", a.handleGetOrder)
					rr.Patch("/{id}", a.handleUpdateOrderStatus)
				})
			})
		})
	})

	return r
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func respondErrorDetails(w http.ResponseWriter, status int, err error, details any) {
	writeJSON(w, status, errorResponse{Error: err.Error(), Details: details})
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	idStr := chi.URLParam(r, key)
	return strconv.ParseInt(idStr, 10, 64)
}

func mapUser(u *domuser.User) map[string]any {
	return map[string]any{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"role_code": u.RoleCode,
	}
}

func mapBook(b *dombook.Book) map[string]any {
	return map[string]any{
		"id":           b.ID,
		"title":        b.Title,
		"author":       b.Author,
		"publisher":    b.Publisher,
		"format":       b.Format,
		"price":        b.Price,
		"stock":        b.Stock,
		"available":    b.Available,
		"weight_grams": b.UnitWeight(),
	}
}

func mapCartView(v *cartuc.View) map[string]any {
	lines := make([]map[string]any, 0, len(v.Lines))
	for _, line := range v.Lines {
		lines = append(lines, map[string]any{
			"book_id":      line.BookID,
			"quantity":     line.Quantity,
			"price":        line.Price,
			"weight_grams": line.WeightGrams,
			"title":        line.Title,
			"author":       line.Author,
			"available":    line.Available,
			"stock":        line.Stock,
		})
	}

	out := map[string]any{
		"user_id":          v.Cart.UserID,
		"items":            lines,
		"total_price":      v.Pricing.TotalPrice,
		"total_items":      v.Pricing.TotalItems,
		"total_weight":     v.Pricing.TotalWeightGrams,
		"discounted_price": v.Pricing.DiscountedPrice,
		"savings":          v.Pricing.Savings,
		"delivery_charge":  v.Pricing.DeliveryCharge,
		"final_total":      v.Pricing.FinalTotal,
		"free_delivery": map[string]any{
			"is_free":       v.Pricing.FreeDelivery.IsFree,
			"threshold":     v.Pricing.FreeDelivery.Threshold,
			"amount_needed": v.Pricing.FreeDelivery.AmountNeeded,
		},
	}
	if v.Cart.Coupon != nil {
		out["coupon"] = map[string]any{
			"code":     v.Cart.Coupon.Code,
			"discount": v.Cart.Coupon.Discount,
			"type":     v.Cart.Coupon.Type,
		}
	}
	return out
}

func mapAddress(addr domorder.Address) map[string]any {
	return map[string]any{
		"house_number": addr.HouseNumber,
		"street":       addr.Street,
		"city":         addr.City,
		"state":        addr.State,
		"zip_code":     addr.ZipCode,
		"country":      addr.Country,
	}
}

func mapOrder(o *domorder.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, map[string]any{
			"book_id":  item.BookID,
			"quantity": item.Quantity,
			"price":    item.Price,
			"title":    item.Title,
			"author":   item.Author,
		})
	}

	out := map[string]any{
		"id":               o.ID,
		"order_number":     o.OrderNumber,
		"user_id":          o.UserID,
		"items":            items,
		"total_amount":     o.TotalAmount,
		"discount":         o.Discount,
		"delivery_charge":  o.DeliveryCharge,
		"final_amount":     o.FinalAmount,
		"total_items":      o.TotalItems,
		"total_weight":     o.TotalWeightGrams,
		"status":           o.Status,
		"payment_method":   o.PaymentMethod,
		"payment_status":   o.PaymentStatus,
		"shipping_address": mapAddress(o.ShippingAddress),
		"billing_address":  mapAddress(o.BillingAddress),
		"notes":            o.Notes,
		"created_at":       o.CreatedAt,
	}
	if o.GatewayOrderID != "" {
		out["gateway_order_id"] = o.GatewayOrderID
	}
	if o.Tracking != nil {
		out["tracking"] = map[string]any{
			"carrier": o.Tracking.Carrier,
			"number":  o.Tracking.Number,
			"url":     o.Tracking.URL,
		}
	}
	if o.EstimatedDelivery != nil {
		out["estimated_delivery"] = o.EstimatedDelivery
	}
	if o.ShippedAt != nil {
		out["shipped_at"] = o.ShippedAt
	}
	if o.DeliveredAt != nil {
		out["delivered_at"] = o.DeliveredAt
	}
	if o.CancelledAt != nil {
		out["cancelled_at"] = o.CancelledAt
	}
	if o.RefundedAt != nil {
		out["refunded_at"] = o.RefundedAt
	}
	return out
}

func handleDomainError(w http.ResponseWriter, err error) {
	var checkoutErr *domorder.CheckoutValidationError
	if errors.As(err, &checkoutErr) {
		details := map[string]any{}
		if len(checkoutErr.UnavailableTitles) > 0 {
			details["unavailable_books"] = checkoutErr.UnavailableTitles
		}
		if len(checkoutErr.OutOfStock) > 0 {
			shortages := make([]map[string]any, 0, len(checkoutErr.OutOfStock))
			for _, s := range checkoutErr.OutOfStock {
				shortages = append(shortages, map[string]any{
					"book_id":   s.BookID,
					"title":     s.Title,
					"requested": s.Requested,
					"available": s.Available,
				})
			}
			details["out_of_stock_books"] = shortages
		}
		respondErrorDetails(w, http.StatusUnprocessableEntity, err, details)
		return
	}

	var stockErr *dombook.InsufficientStockError
	if errors.As(err, &stockErr) {
		respondErrorDetails(w, http.StatusUnprocessableEntity, err, map[string]any{
			"book_id":   stockErr.BookID,
			"title":     stockErr.Title,
			"requested": stockErr.Requested,
			"available": stockErr.Available,
		})
		return
	}

	switch {
	case errors.Is(err, dombook.ErrBookNotFound),
		errors.Is(err, domcart.ErrCartNotFound),
		errors.Is(err, domorder.ErrOrderNotFound),
		errors.Is(err, domuser.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, domuser.ErrEmailAlreadyUsed):
		respondError(w, http.StatusConflict, err)
	case errors.Is(err, domuser.ErrUnauthorized),
		errors.Is(err, domuser.ErrInvalidCredential):
		respondError(w, http.StatusUnauthorized, err)
	case errors.Is(err, domorder.ErrPaymentVerificationFailed):
		respondError(w, http.StatusBadRequest, err)
	case errors.Is(err, payment.ErrGatewayUnavailable):
		respondError(w, http.StatusBadGateway, err)
	case errors.Is(err, dombook.ErrBookUnavailable),
		errors.Is(err, dombook.ErrInsufficientStock),
		errors.Is(err, domcart.ErrInvalidQuantity),
		errors.Is(err, domcart.ErrQuantityLimitExceeded),
		errors.Is(err, domcart.ErrInvalidCoupon),
		errors.Is(err, domorder.ErrEmptyCart),
		errors.Is(err, domorder.ErrInvalidPayment),
		errors.Is(err, domorder.ErrInvalidAmount),
		errors.Is(err, domorder.ErrInvalidStatus),
		errors.Is(err, domorder.ErrInvalidTransition),
		errors.Is(err, domorder.ErrCheckoutValidation):
		respondError(w, http.StatusUnprocessableEntity, err)
	default:
		respondError(w, http.StatusInternalServerError, err)
	}
}
