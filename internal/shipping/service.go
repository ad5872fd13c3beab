package shipping

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastano/veloshop-backend/pkg/db/models"
	pkgerrors "github.com/dcastano/veloshop-backend/pkg/errors"
)

// Service exposes business rules for shipment tracking.
type Service interface {
	GetByOrder(ctx context.Context, orderID, callerID uuid.UUID, callerIsVendor bool) (ShippingDTO, error)
	Update(ctx context.Context, orderID uuid.UUID, dto UpdateShippingDTO) (ShippingDTO, error)
}

type orderFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// ServiceParams groups dependencies for the shipping service.
type ServiceParams struct {
	ShippingRepo *Repository
	OrderRepo    orderFinder
}

type service struct {
	shipping *Repository
	orders   orderFinder
}

// NewService builds a shipping service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ShippingRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping repo is required")
	}
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	return &service{shipping: params.ShippingRepo, orders: params.OrderRepo}, nil
}

// GetByOrder returns the fulfillment record when the caller owns the order or
// is a vendor/staff account.
func (s *service) GetByOrder(ctx context.Context, orderID, callerID uuid.UUID, callerIsVendor bool) (ShippingDTO, error) {
	if orderID == uuid.Nil {
		return ShippingDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShippingDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return ShippingDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != callerID && !callerIsVendor {
		return ShippingDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	record, err := s.shipping.FindByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShippingDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "shipping record not found")
		}
		return ShippingDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipping record")
	}
	return FromModel(record), nil
}

// Update edits tracking data. No transition ordering is enforced on status.
func (s *service) Update(ctx context.Context, orderID uuid.UUID, dto UpdateShippingDTO) (ShippingDTO, error) {
	if orderID == uuid.Nil {
		return ShippingDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	record, err := s.shipping.Update(ctx, orderID, dto)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShippingDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "shipping record not found")
		}
		return ShippingDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shipping record")
	}
	return FromModel(record), nil
}
