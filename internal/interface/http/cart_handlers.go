package http

import (
	"net/http"

	domcart "example.com/bookstore/internal/domain/cart"
)

type addCartItemRequest struct {
	BookID   int64 `json:"book_id" validate:"required,gt=0"`
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}

type updateCartItemRequest struct {
	Quantity *int64 `json:"quantity" validate:"required,gte=0"`
}

type applyCouponRequest struct {
	Code     string  `json:"code" validate:"required"`
	Discount float64 `json:"discount" validate:"required,gt=0"`
	Type     string  `json:"type" validate:"omitempty,oneof=percentage fixed"`
}

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	view, err := a.cartSvc.GetCart(r.Context(), user.UserID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCartView(view))
}

func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req addCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	view, err := a.cartSvc.AddItem(r.Context(), user.UserID, req.BookID, req.Quantity)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapCartView(view))
}

func (a *API) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	bookID, err := parseIDParam(r, "bookID")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req updateCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	view, err := a.cartSvc.UpdateQuantity(r.Context(), user.UserID, bookID, *req.Quantity)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCartView(view))
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	bookID, err := parseIDParam(r, "bookID")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	view, err := a.cartSvc.RemoveItem(r.Context(), user.UserID, bookID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCartView(view))
}

func (a *API) handleClearCart(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	view, err := a.cartSvc.Clear(r.Context(), user.UserID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCartView(view))
}

func (a *API) handleApplyCoupon(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req applyCouponRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	discountType := domcart.DiscountType(req.Type)
	if req.Type == "" {
		discountType = domcart.DiscountPercentage
	}

	view, err := a.cartSvc.ApplyCoupon(r.Context(), user.UserID, req.Code, req.Discount, discountType)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCartView(view))
}

func (a *API) handleRemoveCoupon(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	view, err := a.cartSvc.RemoveCoupon(r.Context(), user.UserID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCartView(view))
}
