package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/dcastano/veloshop-backend/internal/orders"
	"github.com/dcastano/veloshop-backend/internal/users"
	"github.com/dcastano/veloshop-backend/pkg/db"
	"github.com/dcastano/veloshop-backend/pkg/db/models"
	"github.com/dcastano/veloshop-backend/pkg/enums"
	pkgerrors "github.com/dcastano/veloshop-backend/pkg/errors"
	"github.com/dcastano/veloshop-backend/pkg/logger"
	"github.com/dcastano/veloshop-backend/pkg/mailer"
	"github.com/dcastano/veloshop-backend/pkg/paystack"
)

const paystackSuccessStatus = "success"

// Service exposes business rules for gateway payments.
type Service interface {
	Initiate(ctx context.Context, userID uuid.UUID, dto InitiatePaymentDTO) (InitiateResultDTO, error)
	Verify(ctx context.Context, userID uuid.UUID, reference string) (VerifyResultDTO, error)
	History(ctx context.Context, userID uuid.UUID, cursor string, limit int) (PageDTO, error)
}

// ServiceParams groups dependencies for the payment service.
type ServiceParams struct {
	PaymentRepo *Repository
	OrderRepo   *orders.Repository
	UserRepo    *users.Repository
	Tx          db.TxRunner
	Stripe      StripeCheckoutClient
	StripeURLs  StripeRedirectURLs
	Paystack    PaystackTransactionClient
	Mailer      mailer.Sender
	Logger      *logger.Logger
}

// StripeRedirectURLs carries the checkout redirect targets.
type StripeRedirectURLs struct {
	SuccessURL string
	CancelURL  string
}

type service struct {
	payments   *Repository
	orders     *orders.Repository
	users      *users.Repository
	tx         db.TxRunner
	stripe     StripeCheckoutClient
	stripeURLs StripeRedirectURLs
	paystack   PaystackTransactionClient
	mail       mailer.Sender
	logg       *logger.Logger
}

// NewService builds a payment service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.PaymentRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment repo is required")
	}
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	return &service{
		payments:   params.PaymentRepo,
		orders:     params.OrderRepo,
		users:      params.UserRepo,
		tx:         params.Tx,
		stripe:     params.Stripe,
		stripeURLs: params.StripeURLs,
		paystack:   params.Paystack,
		mail:       params.Mailer,
		logg:       params.Logger,
	}, nil
}

// Initiate creates a pending payment for the caller's order and starts a
// hosted checkout with the selected gateway.
func (s *service) Initiate(ctx context.Context, userID uuid.UUID, dto InitiatePaymentDTO) (InitiateResultDTO, error) {
	if userID == uuid.Nil {
		return InitiateResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	method, err := enums.ParsePaymentMethod(dto.Method)
	if err != nil {
		return InitiateResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}

	order, err := s.loadOwnedOrder(ctx, dto.OrderID, userID)
	if err != nil {
		return InitiateResultDTO{}, err
	}

	payment := &models.Payment{
		ID:        uuid.New(),
		OrderID:   order.ID,
		Method:    method,
		Amount:    order.TotalAmount,
		Status:    enums.PaymentStatusPending,
		Reference: NewReference(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return InitiateResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
	}

	var checkoutURL string
	switch method {
	case enums.PaymentMethodPaystack:
		checkoutURL, err = s.initiatePaystack(ctx, userID, order, payment)
	case enums.PaymentMethodStripe:
		checkoutURL, err = s.initiateStripe(ctx, order, payment)
	default:
		err = pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")
	}
	if err != nil {
		return InitiateResultDTO{}, err
	}

	return InitiateResultDTO{Payment: FromModel(payment), CheckoutURL: checkoutURL}, nil
}

func (s *service) initiatePaystack(ctx context.Context, userID uuid.UUID, order *models.Order, payment *models.Payment) (string, error) {
	if s.paystack == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "paystack is not configured")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	auth, err := s.paystack.InitializeTransaction(ctx, paystack.InitializeRequest{
		Email:     user.Email,
		Amount:    toSubunits(order.TotalAmount),
		Reference: payment.Reference,
	})
	if err != nil {
		return "", gatewayError(err)
	}
	if err := s.payments.SetGatewayRef(ctx, payment.ID, auth.Reference); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record gateway reference")
	}
	payment.GatewayRef = auth.Reference
	return auth.AuthorizationURL, nil
}

func (s *service) initiateStripe(ctx context.Context, order *models.Order, payment *models.Payment) (string, error) {
	if s.stripe == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "stripe is not configured")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.stripeURLs.SuccessURL),
		CancelURL:  stripe.String(s.stripeURLs.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Order %s", shortID(order.ID))),
					},
					UnitAmount: stripe.Int64(toSubunits(order.TotalAmount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("reference", payment.Reference)

	session, err := s.stripe.CreateSession(ctx, params)
	if err != nil {
		return "", gatewayError(err)
	}
	if err := s.payments.SetGatewayRef(ctx, payment.ID, session.ID); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record gateway reference")
	}
	payment.GatewayRef = session.ID
	return session.URL, nil
}

// Verify re-queries the gateway for the payment's current state. Only a
// gateway-confirmed success mutates anything: the payment completes and the
// order confirms in one transaction.
func (s *service) Verify(ctx context.Context, userID uuid.UUID, reference string) (VerifyResultDTO, error) {
	if strings.TrimSpace(reference) == "" {
		return VerifyResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "reference is required")
	}

	payment, err := s.payments.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VerifyResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "payment not found")
		}
		return VerifyResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
	if payment.Order == nil || payment.Order.UserID != userID {
		return VerifyResultDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
	}

	paid, err := s.queryGatewayPaid(ctx, payment)
	if err != nil {
		return VerifyResultDTO{}, err
	}
	if !paid {
		return VerifyResultDTO{}, pkgerrors.New(pkgerrors.CodeGateway, "payment not completed")
	}

	if payment.Status != enums.PaymentStatusCompleted {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.payments.WithTx(tx).UpdateStatus(ctx, payment.ID, enums.PaymentStatusCompleted); err != nil {
				return err
			}
			return s.orders.WithTx(tx).UpdateStatus(ctx, payment.OrderID, enums.OrderStatusConfirmed)
		})
		if err != nil {
			return VerifyResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize payment")
		}
		payment.Status = enums.PaymentStatusCompleted
		s.sendPaymentConfirmation(ctx, userID, payment)
	}

	return VerifyResultDTO{
		Payment:     FromModel(payment),
		OrderStatus: enums.OrderStatusConfirmed,
	}, nil
}

func (s *service) queryGatewayPaid(ctx context.Context, payment *models.Payment) (bool, error) {
	switch payment.Method {
	case enums.PaymentMethodPaystack:
		if s.paystack == nil {
			return false, pkgerrors.New(pkgerrors.CodeDependency, "paystack is not configured")
		}
		txn, err := s.paystack.VerifyTransaction(ctx, payment.Reference)
		if err != nil {
			return false, gatewayError(err)
		}
		return txn.Status == paystackSuccessStatus, nil

	case enums.PaymentMethodStripe:
		if s.stripe == nil {
			return false, pkgerrors.New(pkgerrors.CodeDependency, "stripe is not configured")
		}
		if strings.TrimSpace(payment.GatewayRef) == "" {
			return false, pkgerrors.New(pkgerrors.CodeGateway, "payment has no checkout session")
		}
		session, err := s.stripe.RetrieveSession(ctx, payment.GatewayRef)
		if err != nil {
			return false, gatewayError(err)
		}
		return session.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid, nil

	default:
		return false, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")
	}
}

// History returns the caller's payments, newest first.
func (s *service) History(ctx context.Context, userID uuid.UUID, cursor string, limit int) (PageDTO, error) {
	if userID == uuid.Nil {
		return PageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	page, err := s.payments.ListByUser(ctx, userID, cursor, limit)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return page, nil
}

func (s *service) loadOwnedOrder(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// sendPaymentConfirmation is fire and forget.
func (s *service) sendPaymentConfirmation(ctx context.Context, userID uuid.UUID, payment *models.Payment) {
	if s.mail == nil {
		return
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "payment confirmation skipped: user lookup failed")
		}
		return
	}
	body := mailer.BuildPaymentConfirmationBody(payment.OrderID.String(), payment.Amount.StringFixed(2))
	if err := s.mail.SendHTMLEmail(ctx, user.Email, "Payment confirmed", body); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "payment confirmation email failed: "+err.Error())
	}
}

// NewReference mints the local correlation id recorded before any gateway call.
func NewReference() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "PAY_" + raw[:10]
}

// gatewayError preserves coded gateway errors and wraps everything else.
func gatewayError(err error) error {
	if appErr := pkgerrors.As(err); appErr != nil {
		return appErr
	}
	return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "payment gateway error")
}

func toSubunits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

func shortID(id uuid.UUID) string {
	return strings.Split(id.String(), "-")[0]
}
