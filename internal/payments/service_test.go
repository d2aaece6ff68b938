package payments

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/indiereel/backend/pkg/db/dbtest"
	"github.com/indiereel/backend/pkg/db/models"
	pkgerrors "github.com/indiereel/backend/pkg/errors"
	"github.com/indiereel/backend/pkg/logger"
	"github.com/indiereel/backend/pkg/razorpay"
)

type stubGateway struct {
	createOrder func(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error)
	verify      func(orderID, paymentID, signature string) bool
	requests    []razorpay.OrderRequest
}

func (s *stubGateway) CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error) {
	s.requests = append(s.requests, req)
	if s.createOrder != nil {
		return s.createOrder(ctx, req)
	}
	return &razorpay.Order{ID: "order_123", Status: razorpay.StatusCreated, Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt}, nil
}

func (s *stubGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	if s.verify != nil {
		return s.verify(orderID, paymentID, signature)
	}
	return true
}

func setup(t *testing.T, gateway Gateway) (Service, *gorm.DB, *bytes.Buffer) {
	t.Helper()
	conn := dbtest.Open(t)
	buf := &bytes.Buffer{}
	svc, err := NewService(ServiceParams{
		Repo:    NewRepository(conn),
		Gateway: gateway,
		Logger:  logger.New(logger.Options{ServiceName: "payments-test", Level: logger.ParseLevel("debug"), Output: buf}),
	})
	require.NoError(t, err)
	return svc, conn, buf
}

func seedOwner(t *testing.T, conn *gorm.DB, orders int) models.User {
	t.Helper()
	owner, _ := dbtest.SeedUser(t, conn, "owner@example.com", "Own", "Er")
	for i := 0; i < orders; i++ {
		require.NoError(t, conn.Omit("Owner").Create(&models.Order{OwnerID: owner.ID}).Error)
	}
	return owner
}

func TestCreateOrderSendsPackagePriceAndReceipt(t *testing.T) {
	gateway := &stubGateway{}
	svc, conn, _ := setup(t, gateway)
	owner := seedOwner(t, conn, 2)
	pkg := models.Package{Name: "premium", Amount: decimal.RequireFromString("1499.00")}

	order, err := svc.CreateOrder(context.Background(), conn, pkg, owner)
	require.NoError(t, err)

	require.Len(t, gateway.requests, 1)
	req := gateway.requests[0]
	assert.Equal(t, int64(149900), req.Amount)
	assert.Equal(t, "INR", req.Currency)
	assert.Equal(t, ReceiptFor("owner@example.com", 2), req.Receipt)
	assert.Equal(t, map[string]string{"email": "owner@example.com"}, req.Notes)

	assert.Equal(t, "order_123", order.ID)
	assert.Equal(t, int64(149900), order.Amount)
	assert.Equal(t, req.Receipt, order.Receipt)
}

func TestCreateOrderTransportFailureIsDependencyError(t *testing.T) {
	gateway := &stubGateway{createOrder: func(context.Context, razorpay.OrderRequest) (*razorpay.Order, error) {
		return nil, errors.New("connection reset")
	}}
	svc, conn, logs := setup(t, gateway)
	owner := seedOwner(t, conn, 0)

	_, err := svc.CreateOrder(context.Background(), conn, models.Package{Amount: decimal.NewFromInt(10)}, owner)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Contains(t, logs.String(), `"level":"error"`)
	assert.Contains(t, logs.String(), "gateway order creation failed")
}

func TestCreateOrderRejectsUnexpectedStatus(t *testing.T) {
	gateway := &stubGateway{createOrder: func(_ context.Context, req razorpay.OrderRequest) (*razorpay.Order, error) {
		return &razorpay.Order{ID: "order_9", Status: "failed"}, nil
	}}
	svc, conn, logs := setup(t, gateway)
	owner := seedOwner(t, conn, 0)

	_, err := svc.CreateOrder(context.Background(), conn, models.Package{Amount: decimal.NewFromInt(10)}, owner)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Contains(t, logs.String(), "gateway order not created")
}

func TestVerifyPayment(t *testing.T) {
	gateway := &stubGateway{verify: func(orderID, paymentID, signature string) bool {
		return signature == "good"
	}}
	svc, _, _ := setup(t, gateway)

	require.NoError(t, svc.VerifyPayment("order_1", "pay_1", "good"))

	err := svc.VerifyPayment("order_1", "pay_1", "bad")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	err = svc.VerifyPayment("order_1", "", "good")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestReceiptForIsStablePerCount(t *testing.T) {
	a := ReceiptFor("owner@example.com", 1)
	assert.Len(t, a, 32)
	assert.Equal(t, a, ReceiptFor("owner@example.com", 1))
	assert.NotEqual(t, a, ReceiptFor("owner@example.com", 2))
	assert.Equal(t, "37782b8aa80554590a7829f035dd4387", a)
}

func TestUnconfiguredGatewayIsDependencyError(t *testing.T) {
	svc, conn, _ := setup(t, nil)
	owner := seedOwner(t, conn, 1)

	_, err := svc.CreateOrder(context.Background(), conn, models.Package{Name: "premium", Amount: decimal.NewFromInt(499)}, owner)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	err = svc.VerifyPayment("order_1", "pay_1", "sig")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	err = svc.VerifyPayment("order_1", "", "sig")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestNewServiceValidatesDeps(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}
