package book

import (
	"context"

	dom "example.com/bookstore/internal/domain/book"
)

type Service struct {
	repo dom.Repository
}

func NewService(repo dom.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, b *dom.Book) (*dom.Book, error) {
	return s.repo.Create(ctx, b)
}

func (s *Service) Update(ctx context.Context, b *dom.Book) (*dom.Book, error) {
	existed, err := s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	if b.Title != "" {
		existed.Title = b.Title
	}
	if b.Author != "" {
		existed.Author = b.Author
	}
	if b.Publisher != "" {
		existed.Publisher = b.Publisher
	}
	if b.Format != "" {
		existed.Format = b.Format
	}
	if b.Price > 0 {
		existed.Price = b.Price
	}
	if b.Stock >= 0 {
		existed.Stock = b.Stock
	}
	if b.WeightGrams > 0 {
		existed.WeightGrams = b.WeightGrams
	}
	existed.Available = b.Available && existed.Stock > 0

	return s.repo.Update(ctx, existed)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*dom.Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter dom.ListFilter) ([]*dom.Book, error) {
	return s.repo.List(ctx, filter)
}
