package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dcastano/veloshop-backend/internal/cart"
	"github.com/dcastano/veloshop-backend/internal/catalog"
	"github.com/dcastano/veloshop-backend/internal/shipping"
	"github.com/dcastano/veloshop-backend/internal/users"
	"github.com/dcastano/veloshop-backend/pkg/db"
	"github.com/dcastano/veloshop-backend/pkg/db/models"
	"github.com/dcastano/veloshop-backend/pkg/enums"
	pkgerrors "github.com/dcastano/veloshop-backend/pkg/errors"
	"github.com/dcastano/veloshop-backend/pkg/logger"
	"github.com/dcastano/veloshop-backend/pkg/mailer"
)

const defaultShippingMethod = "Standard Shipping"

// Service exposes business rules for order placement and tracking.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, dto PlaceOrderDTO) (OrderDTO, error)
	ListOrders(ctx context.Context, userID uuid.UUID, cursor string, limit int) (PageDTO, error)
	GetOrder(ctx context.Context, orderID, callerID uuid.UUID, callerIsVendor bool) (OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (OrderDTO, error)
	ListAllOrders(ctx context.Context, cursor string, limit int) (PageDTO, error)
}

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	OrderRepo    *Repository
	CartRepo     *cart.Repository
	ProductRepo  *catalog.ProductRepository
	ShippingRepo *shipping.Repository
	UserRepo     *users.Repository
	Tx           db.TxRunner
	Mailer       mailer.Sender
	Logger       *logger.Logger
}

type service struct {
	orders   *Repository
	carts    *cart.Repository
	products *catalog.ProductRepository
	shipping *shipping.Repository
	users    *users.Repository
	tx       db.TxRunner
	mail     mailer.Sender
	logg     *logger.Logger
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.ShippingRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	return &service{
		orders:   params.OrderRepo,
		carts:    params.CartRepo,
		products: params.ProductRepo,
		shipping: params.ShippingRepo,
		users:    params.UserRepo,
		tx:       params.Tx,
		mail:     params.Mailer,
		logg:     params.Logger,
	}, nil
}

// PlaceOrder converts the caller's persisted cart into an order. Stock
// decrements, snapshot rows, the shipping record, and the cart clear all
// commit or roll back together.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, dto PlaceOrderDTO) (OrderDTO, error) {
	if userID == uuid.Nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	address := strings.TrimSpace(dto.ShippingAddress)
	if address == "" {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}
	method := strings.TrimSpace(dto.ShippingMethod)
	if method == "" {
		method = defaultShippingMethod
	}

	loadedCart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(loadedCart.Items) == 0 {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	orderID := uuid.New()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		productsTx := s.products.WithTx(tx)
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(loadedCart.Items))

		for i := range loadedCart.Items {
			line := &loadedCart.Items[i]
			if line.Product == nil || !line.Product.IsActive {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart contains an unavailable product")
			}
			ok, err := productsTx.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("insufficient stock for %s", line.Product.Name))
			}

			price := line.Product.Price
			total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			items = append(items, models.OrderItem{
				ID:        uuid.New(),
				OrderID:   orderID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     price,
			})
		}

		order := &models.Order{
			ID:              orderID,
			UserID:          userID,
			TotalAmount:     total,
			Status:          enums.OrderStatusPending,
			ShippingAddress: address,
		}

		ordersTx := s.orders.WithTx(tx)
		if err := ordersTx.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := ordersTx.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		if _, err := s.shipping.WithTx(tx).Create(ctx, orderID, method); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shipping record")
		}
		if err := s.carts.WithTx(tx).Clear(ctx, loadedCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return OrderDTO{}, appErr
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place order")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}

	s.sendOrderConfirmation(ctx, userID, order)

	return FromModel(order), nil
}

// ListOrders returns the caller's orders, newest first.
func (s *service) ListOrders(ctx context.Context, userID uuid.UUID, cursor string, limit int) (PageDTO, error) {
	if userID == uuid.Nil {
		return PageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	page, err := s.orders.ListByUser(ctx, userID, cursor, limit)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return page, nil
}

// GetOrder returns one order when the caller owns it or is a vendor/staff
// account. Foreign orders read as missing.
func (s *service) GetOrder(ctx context.Context, orderID, callerID uuid.UUID, callerIsVendor bool) (OrderDTO, error) {
	if orderID == uuid.Nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != callerID && !callerIsVendor {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return FromModel(order), nil
}

// UpdateStatus moves an order to a known status.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (OrderDTO, error) {
	if orderID == uuid.Nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
	}
	if err := s.orders.UpdateStatus(ctx, orderID, parsed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	return FromModel(order), nil
}

// ListAllOrders returns every order for vendor/admin views.
func (s *service) ListAllOrders(ctx context.Context, cursor string, limit int) (PageDTO, error) {
	page, err := s.orders.ListAll(ctx, cursor, limit)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list all orders")
	}
	return page, nil
}

// sendOrderConfirmation is fire and forget; delivery failures never fail the order.
func (s *service) sendOrderConfirmation(ctx context.Context, userID uuid.UUID, order *models.Order) {
	if s.mail == nil {
		return
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "order confirmation skipped: user lookup failed")
		}
		return
	}
	body := mailer.BuildOrderConfirmationBody(order.ID.String(), order.TotalAmount.StringFixed(2))
	if err := s.mail.SendHTMLEmail(ctx, user.Email, "Order received", body); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "order confirmation email failed: "+err.Error())
	}
}
