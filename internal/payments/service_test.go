package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dcastano/veloshop-backend/internal/orders"
	"github.com/dcastano/veloshop-backend/internal/users"
	"github.com/dcastano/veloshop-backend/pkg/db/models"
	"github.com/dcastano/veloshop-backend/pkg/enums"
	pkgerrors "github.com/dcastano/veloshop-backend/pkg/errors"
	"github.com/dcastano/veloshop-backend/pkg/logger"
	"github.com/dcastano/veloshop-backend/pkg/paystack"
)

func setupPaymentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT,
  last_name TEXT,
  is_vendor INTEGER NOT NULL DEFAULT 0,
  is_staff INTEGER NOT NULL DEFAULT 0,
  reset_token TEXT,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total_amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  shipping_address TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  method TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  reference TEXT NOT NULL UNIQUE,
  gateway_ref TEXT,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type txRunnerStub struct {
	db *gorm.DB
}

func (r txRunnerStub) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type stripeStub struct {
	session     *stripe.CheckoutSession
	createErr   error
	retrieveErr error
	retrieved   string
}

func (s *stripeStub) CreateSession(_ context.Context, _ *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.session, nil
}

func (s *stripeStub) RetrieveSession(_ context.Context, id string) (*stripe.CheckoutSession, error) {
	s.retrieved = id
	if s.retrieveErr != nil {
		return nil, s.retrieveErr
	}
	return s.session, nil
}

type paystackStub struct {
	auth      *paystack.Authorization
	txn       *paystack.Transaction
	initErr   error
	verifyErr error
}

func (p *paystackStub) InitializeTransaction(_ context.Context, _ paystack.InitializeRequest) (*paystack.Authorization, error) {
	if p.initErr != nil {
		return nil, p.initErr
	}
	return p.auth, nil
}

func (p *paystackStub) VerifyTransaction(_ context.Context, _ string) (*paystack.Transaction, error) {
	if p.verifyErr != nil {
		return nil, p.verifyErr
	}
	return p.txn, nil
}

type mailerStub struct {
	sent int
}

func (m *mailerStub) SendHTMLEmail(_ context.Context, _, _, _ string) error {
	m.sent++
	return nil
}

func newPaymentsService(t *testing.T, db *gorm.DB, stripeClient StripeCheckoutClient, paystackClient PaystackTransactionClient, mail *mailerStub) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		PaymentRepo: NewRepository(db),
		OrderRepo:   orders.NewRepository(db),
		UserRepo:    users.NewRepository(db),
		Tx:          txRunnerStub{db: db},
		Stripe:      stripeClient,
		StripeURLs:  StripeRedirectURLs{SuccessURL: "https://shop.test/success", CancelURL: "https://shop.test/cancel"},
		Paystack:    paystackClient,
		Mailer:      mail,
		Logger:      logger.New(logger.Options{ServiceName: "payments-test"}),
	})
	require.NoError(t, err)
	return svc
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		Username:     "u-" + uuid.NewString(),
		PasswordHash: "hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, total string) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		TotalAmount:     decimal.RequireFromString(total),
		Status:          enums.OrderStatusPending,
		ShippingAddress: "12 Main St",
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestInitiateStripeStartsCheckout(t *testing.T) {
	db := setupPaymentsTestDB(t)
	user := seedUser(t, db)
	order := seedOrder(t, db, user.ID, "25.00")
	stripeClient := &stripeStub{session: &stripe.CheckoutSession{
		ID:  "cs_test_123",
		URL: "https://checkout.stripe.test/cs_test_123",
	}}
	svc := newPaymentsService(t, db, stripeClient, nil, &mailerStub{})

	result, err := svc.Initiate(context.Background(), user.ID, InitiatePaymentDTO{
		OrderID: order.ID,
		Method:  "stripe",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.stripe.test/cs_test_123", result.CheckoutURL)
	assert.Equal(t, enums.PaymentStatusPending, result.Payment.Status)
	assert.True(t, result.Payment.Amount.Equal(order.TotalAmount))
	assert.NotEmpty(t, result.Payment.Reference)

	var stored models.Payment
	require.NoError(t, db.First(&stored, "reference = ?", result.Payment.Reference).Error)
	assert.Equal(t, "cs_test_123", stored.GatewayRef)
	assert.Equal(t, enums.PaymentStatusPending, stored.Status)
}

func TestInitiatePaystackStartsCheckout(t *testing.T) {
	db := setupPaymentsTestDB(t)
	user := seedUser(t, db)
	order := seedOrder(t, db, user.ID, "40.00")
	paystackClient := &paystackStub{auth: &paystack.Authorization{
		AuthorizationURL: "https://checkout.paystack.test/abc",
		Reference:        "PS_REF_1",
	}}
	svc := newPaymentsService(t, db, nil, paystackClient, &mailerStub{})

	result, err := svc.Initiate(context.Background(), user.ID, InitiatePaymentDTO{
		OrderID: order.ID,
		Method:  "paystack",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.test/abc", result.CheckoutURL)

	var stored models.Payment
	require.NoError(t, db.First(&stored, "reference = ?", result.Payment.Reference).Error)
	assert.Equal(t, "PS_REF_1", stored.GatewayRef)
}

func TestInitiateRejectsUnknownMethod(t *testing.T) {
	db := setupPaymentsTestDB(t)
	user := seedUser(t, db)
	order := seedOrder(t, db, user.ID, "25.00")
	svc := newPaymentsService(t, db, &stripeStub{}, nil, &mailerStub{})

	_, err := svc.Initiate(context.Background(), user.ID, InitiatePaymentDTO{
		OrderID: order.ID,
		Method:  "wire-pigeon",
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestInitiateHidesForeignOrders(t *testing.T) {
	db := setupPaymentsTestDB(t)
	owner := seedUser(t, db)
	stranger := seedUser(t, db)
	order := seedOrder(t, db, owner.ID, "25.00")
	svc := newPaymentsService(t, db, &stripeStub{}, nil, &mailerStub{})

	_, err := svc.Initiate(context.Background(), stranger.ID, InitiatePaymentDTO{
		OrderID: order.ID,
		Method:  "stripe",
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestVerifyCompletesPaymentAndConfirmsOrder(t *testing.T) {
	db := setupPaymentsTestDB(t)
	user := seedUser(t, db)
	order := seedOrder(t, db, user.ID, "25.00")
	stripeClient := &stripeStub{session: &stripe.CheckoutSession{
		ID:  "cs_test_paid",
		URL: "https://checkout.stripe.test/cs_test_paid",
	}}
	mail := &mailerStub{}
	svc := newPaymentsService(t, db, stripeClient, nil, mail)

	initiated, err := svc.Initiate(context.Background(), user.ID, InitiatePaymentDTO{
		OrderID: order.ID,
		Method:  "stripe",
	})
	require.NoError(t, err)

	stripeClient.session.PaymentStatus = stripe.CheckoutSessionPaymentStatusPaid
	result, err := svc.Verify(context.Background(), user.ID, initiated.Payment.Reference)
	require.NoError(t, err)

	assert.Equal(t, "cs_test_paid", stripeClient.retrieved)
	assert.Equal(t, enums.PaymentStatusCompleted, result.Payment.Status)
	assert.Equal(t, enums.OrderStatusConfirmed, result.OrderStatus)
	assert.Equal(t, 1, mail.sent)

	var storedPayment models.Payment
	require.NoError(t, db.First(&storedPayment, "reference = ?", initiated.Payment.Reference).Error)
	assert.Equal(t, enums.PaymentStatusCompleted, storedPayment.Status)

	var storedOrder models.Order
	require.NoError(t, db.First(&storedOrder, "id = ?", order.ID).Error)
	assert.Equal(t, enums.OrderStatusConfirmed, storedOrder.Status)
}

func TestVerifyUnpaidSessionMutatesNothing(t *testing.T) {
	db := setupPaymentsTestDB(t)
	user := seedUser(t, db)
	order := seedOrder(t, db, user.ID, "25.00")
	stripeClient := &stripeStub{session: &stripe.CheckoutSession{
		ID:  "cs_test_unpaid",
		URL: "https://checkout.stripe.test/cs_test_unpaid",
	}}
	svc := newPaymentsService(t, db, stripeClient, nil, &mailerStub{})

	initiated, err := svc.Initiate(context.Background(), user.ID, InitiatePaymentDTO{
		OrderID: order.ID,
		Method:  "stripe",
	})
	require.NoError(t, err)

	stripeClient.session.PaymentStatus = stripe.CheckoutSessionPaymentStatusUnpaid
	_, err = svc.Verify(context.Background(), user.ID, initiated.Payment.Reference)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeGateway, appErr.Code())

	var storedPayment models.Payment
	require.NoError(t, db.First(&storedPayment, "reference = ?", initiated.Payment.Reference).Error)
	assert.Equal(t, enums.PaymentStatusPending, storedPayment.Status)

	var storedOrder models.Order
	require.NoError(t, db.First(&storedOrder, "id = ?", order.ID).Error)
	assert.Equal(t, enums.OrderStatusPending, storedOrder.Status)
}

func TestVerifyGatewayFailurePreservesCode(t *testing.T) {
	db := setupPaymentsTestDB(t)
	user := seedUser(t, db)
	order := seedOrder(t, db, user.ID, "25.00")
	stripeClient := &stripeStub{session: &stripe.CheckoutSession{ID: "cs_down", URL: "u"}}
	svc := newPaymentsService(t, db, stripeClient, nil, &mailerStub{})

	initiated, err := svc.Initiate(context.Background(), user.ID, InitiatePaymentDTO{
		OrderID: order.ID,
		Method:  "stripe",
	})
	require.NoError(t, err)

	stripeClient.retrieveErr = errors.New("gateway exploded")
	_, err = svc.Verify(context.Background(), user.ID, initiated.Payment.Reference)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeGateway, appErr.Code())
}

func TestVerifyUnknownReference(t *testing.T) {
	db := setupPaymentsTestDB(t)
	user := seedUser(t, db)
	svc := newPaymentsService(t, db, &stripeStub{}, nil, &mailerStub{})

	_, err := svc.Verify(context.Background(), user.ID, "PAY_DOESNOTEXIST")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestVerifyHidesForeignPayments(t *testing.T) {
	db := setupPaymentsTestDB(t)
	owner := seedUser(t, db)
	stranger := seedUser(t, db)
	order := seedOrder(t, db, owner.ID, "25.00")
	stripeClient := &stripeStub{session: &stripe.CheckoutSession{ID: "cs_owned", URL: "u"}}
	svc := newPaymentsService(t, db, stripeClient, nil, &mailerStub{})

	initiated, err := svc.Initiate(context.Background(), owner.ID, InitiatePaymentDTO{
		OrderID: order.ID,
		Method:  "stripe",
	})
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), stranger.ID, initiated.Payment.Reference)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestHistoryScopedToUser(t *testing.T) {
	db := setupPaymentsTestDB(t)
	buyer := seedUser(t, db)
	other := seedUser(t, db)
	buyerOrder := seedOrder(t, db, buyer.ID, "25.00")
	otherOrder := seedOrder(t, db, other.ID, "30.00")
	stripeClient := &stripeStub{session: &stripe.CheckoutSession{ID: "cs_hist", URL: "u"}}
	svc := newPaymentsService(t, db, stripeClient, nil, &mailerStub{})

	_, err := svc.Initiate(context.Background(), buyer.ID, InitiatePaymentDTO{OrderID: buyerOrder.ID, Method: "stripe"})
	require.NoError(t, err)
	_, err = svc.Initiate(context.Background(), other.ID, InitiatePaymentDTO{OrderID: otherOrder.ID, Method: "stripe"})
	require.NoError(t, err)

	page, err := svc.History(context.Background(), buyer.ID, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, buyerOrder.ID, page.Items[0].OrderID)
}

func TestNewReferenceShape(t *testing.T) {
	ref := NewReference()
	assert.Len(t, ref, 14)
	assert.Equal(t, "PAY_", ref[:4])
	assert.NotEqual(t, ref, NewReference())
}
