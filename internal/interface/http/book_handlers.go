package http

import (
	"net/http"

	dombook "example.com/bookstore/internal/domain/book"
)

type bookRequest struct {
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	Publisher   string  `json:"publisher"`
	Format      string  `json:"format" validate:"omitempty,oneof=Paperback Hardcover E-book Audiobook"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int64   `json:"stock" validate:"gte=0"`
	Available   bool    `json:"available"`
	WeightGrams int64   `json:"weight_grams" validate:"gte=0"`
}

type updateBookRequest struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Publisher   string  `json:"publisher"`
	Format      string  `json:"format" validate:"omitempty,oneof=Paperback Hardcover E-book Audiobook"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int64   `json:"stock" validate:"gte=0"`
	Available   bool    `json:"available"`
	WeightGrams int64   `json:"weight_grams" validate:"gte=0"`
}

func (a *API) handleListBooks(w http.ResponseWriter, r *http.Request) {
	filter := dombook.ListFilter{
		Search:        r.URL.Query().Get("search"),
		OnlyAvailable: r.URL.Query().Get("available") == "true",
	}

	books, err := a.bookSvc.List(r.Context(), filter)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(books))
	for _, b := range books {
		out = append(out, mapBook(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleGetBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	b, err := a.bookSvc.GetByID(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapBook(b))
}

func (a *API) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	b, err := a.bookSvc.Create(r.Context(), &dombook.Book{
		Title:       req.Title,
		Author:      req.Author,
		Publisher:   req.Publisher,
		Format:      dombook.Format(req.Format),
		Price:       req.Price,
		Stock:       req.Stock,
		Available:   req.Available && req.Stock > 0,
		WeightGrams: req.WeightGrams,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapBook(b))
}

func (a *API) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req updateBookRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	b, err := a.bookSvc.Update(r.Context(), &dombook.Book{
		ID:          id,
		Title:       req.Title,
		Author:      req.Author,
		Publisher:   req.Publisher,
		Format:      dombook.Format(req.Format),
		Price:       req.Price,
		Stock:       req.Stock,
		Available:   req.Available,
		WeightGrams: req.WeightGrams,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapBook(b))
}

func (a *API) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	if err := a.bookSvc.Delete(r.Context(), id); err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
