package http

import (
	"net/http"
	"strconv"
	"time"

	domorder "example.com/bookstore/internal/domain/order"
	orderuc "example.com/bookstore/internal/usecase/order"
)

type updateOrderStatusRequest struct {
	Status         string `json:"status" validate:"required"`
	TrackingNumber string `json:"tracking_number"`
	Carrier        string `json:"carrier"`
	TrackingURL    string `json:"tracking_url"`
	Notes          string `json:"notes"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

func mapTransitionResult(result *orderuc.TransitionResult) map[string]any {
	out := map[string]any{"order": mapOrder(result.Order)}
	if result.StockWarning != "" {
		out["warning"] = result.StockWarning
	}
	return out
}

func (a *API) handleListMyOrders(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	orders, err := a.orderSvc.ListByUser(r.Context(), user.UserID, limit)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		out = append(out, mapOrder(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleGetMyOrder(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	o, err := a.orderSvc.GetForUser(r.Context(), user.UserID, id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func (a *API) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req cancelOrderRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	result, err := a.orderSvc.Cancel(r.Context(), user.UserID, id, req.Reason)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapTransitionResult(result))
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var filter domorder.ListFilter
	if statusStr := query.Get("status"); statusStr != "" {
		status := domorder.Status(statusStr)
		if !status.IsValid() {
			respondError(w, http.StatusBadRequest, domorder.ErrInvalidStatus)
			return
		}
		filter.Status = &status
	}
	if userIDStr := query.Get("user_id"); userIDStr != "" {
		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		filter.UserID = &userID
	}
	filter.Limit, _ = strconv.ParseInt(query.Get("limit"), 10, 64)

	orders, err := a.orderSvc.List(r.Context(), filter)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		out = append(out, mapOrder(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	o, err := a.orderSvc.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func (a *API) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req updateOrderStatusRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	next := domorder.Status(req.Status)
	if !next.IsValid() {
		respondError(w, http.StatusUnprocessableEntity, domorder.ErrInvalidStatus)
		return
	}

	in := domorder.TransitionInput{Notes: req.Notes, Now: time.Now()}
	if req.TrackingNumber != "" {
		in.Tracking = &domorder.Tracking{
			Carrier: req.Carrier,
			Number:  req.TrackingNumber,
			URL:     req.TrackingURL,
		}
	}

	result, err := a.orderSvc.UpdateStatus(r.Context(), id, next, in)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapTransitionResult(result))
}
