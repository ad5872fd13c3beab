package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastano/veloshop-backend/internal/catalog"
	"github.com/dcastano/veloshop-backend/pkg/db/models"
	pkgerrors "github.com/dcastano/veloshop-backend/pkg/errors"
)

// Service exposes business rules for shopping cart management.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (CartDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, qty int) (CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo    *Repository
	ProductRepo *catalog.ProductRepository
}

type service struct {
	carts    *Repository
	products *catalog.ProductRepository
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{carts: params.CartRepo, products: params.ProductRepo}, nil
}

// GetCart returns the caller's cart, creating it on first access.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (CartDTO, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return CartDTO{}, err
	}
	return FromModel(cart), nil
}

// AddItem puts a product into the cart; re-adding increments the quantity.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, qty int) (CartDTO, error) {
	if productID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if qty <= 0 {
		qty = 1
	}
	if _, err := s.products.FindActiveByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return CartDTO{}, err
	}
	if err := s.carts.AddItem(ctx, cart.ID, productID, qty); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}
	return s.GetCart(ctx, userID)
}

// RemoveItem drops the product from the cart, 404 when it was never there.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (CartDTO, error) {
	if productID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return CartDTO{}, err
	}
	removed, err := s.carts.RemoveItem(ctx, cart.ID, productID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	if !removed {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}
	return s.GetCart(ctx, userID)
}

// Clear empties the cart.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.carts.Clear(ctx, cart.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) loadCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}
