package auth

import (
	"context"
	"log"
	"strings"

	domcart "example.com/bookstore/internal/domain/cart"
	domuser "example.com/bookstore/internal/domain/user"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

type Claims struct {
	UserID   int64
	RoleCode domuser.RoleCode
	Email    string
	Name     string
}

type TokenService interface {
	GenerateToken(u *domuser.User) (string, error)
	ParseToken(token string) (*Claims, error)
}

type CartRepository interface {
	Save(ctx context.Context, c *domcart.Cart) error
}

type Service struct {
	userRepo  domuser.Repository
	cartRepo  CartRepository
	passwords PasswordHasher
	tokens    TokenService
}

func NewService(
	userRepo domuser.Repository,
	cartRepo CartRepository,
	passwords PasswordHasher,
	tokens TokenService,
) *Service {
	return &Service{
		userRepo:  userRepo,
		cartRepo:  cartRepo,
		passwords: passwords,
		tokens:    tokens,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates the user and their empty cart. A cart-creation failure is
// tolerated: GetCart lazily creates one on first access.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domuser.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return nil, domuser.ErrInvalidCredential
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.userRepo.Create(ctx, &domuser.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		RoleCode:     domuser.RoleCodeCustomer,
	})
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, &domcart.Cart{UserID: u.ID}); err != nil {
		log.Printf("Warning: failed to create cart for user %d: %v", u.ID, err)
	}

	return u, nil
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token string
	User  *domuser.User
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return nil, domuser.ErrInvalidCredential
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, domuser.ErrUnauthorized
	}

	if err := s.passwords.Compare(u.PasswordHash, in.Password); err != nil {
		return nil, domuser.ErrUnauthorized
	}

	token, err := s.tokens.GenerateToken(u)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token: token,
		User:  u,
	}, nil
}
