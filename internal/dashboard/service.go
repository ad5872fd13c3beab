package dashboard

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dcastano/veloshop-backend/internal/users"
	"github.com/dcastano/veloshop-backend/pkg/db/models"
	"github.com/dcastano/veloshop-backend/pkg/enums"
	pkgerrors "github.com/dcastano/veloshop-backend/pkg/errors"
)

// SummaryDTO aggregates the storefront's headline numbers.
type SummaryDTO struct {
	TotalOrders   int64           `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	PendingOrders int64           `json:"pending_orders"`
	CustomerCount int64           `json:"customer_count"`
}

// Service exposes the vendor/admin dashboard aggregates.
type Service interface {
	Summary(ctx context.Context) (SummaryDTO, error)
}

// ServiceParams groups dependencies for the dashboard service.
type ServiceParams struct {
	DB       *gorm.DB
	UserRepo *users.Repository
}

type service struct {
	db    *gorm.DB
	users *users.Repository
}

// NewService builds a dashboard service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db handle is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{db: params.DB, users: params.UserRepo}, nil
}

// Summary computes order counts, revenue, and the customer count.
func (s *service) Summary(ctx context.Context) (SummaryDTO, error) {
	var summary SummaryDTO

	if err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Count(&summary.TotalOrders).Error; err != nil {
		return SummaryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}

	var revenue struct {
		Total decimal.Decimal
	}
	if err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Scan(&revenue).Error; err != nil {
		return SummaryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}
	summary.TotalRevenue = revenue.Total

	if err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", enums.OrderStatusPending).
		Count(&summary.PendingOrders).Error; err != nil {
		return SummaryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending orders")
	}

	customers, err := s.users.CountCustomers(ctx)
	if err != nil {
		return SummaryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customers")
	}
	summary.CustomerCount = customers

	return summary, nil
}
