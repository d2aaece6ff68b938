package payments

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/indiereel/backend/pkg/db/models"
	"github.com/indiereel/backend/pkg/enums"
	pkgerrors "github.com/indiereel/backend/pkg/errors"
	"github.com/indiereel/backend/pkg/logger"
	"github.com/indiereel/backend/pkg/metrics"
	"github.com/indiereel/backend/pkg/razorpay"
)

// Gateway is the slice of the payment gateway client the adapter needs. A nil
// Gateway leaves the adapter up but every gateway operation answers with a
// dependency error.
type Gateway interface {
	CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
}

// GatewayOrder is what gets stored on the movie's Order once a package is chosen.
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
}

// Service opens gateway orders for package purchases and checks payment signatures.
type Service interface {
	CreateOrder(ctx context.Context, tx *gorm.DB, pkg models.Package, owner models.User) (*GatewayOrder, error)
	VerifyPayment(gatewayOrderID, paymentID, signature string) error
}

type service struct {
	repo     Repository
	gateway  Gateway
	logg     *logger.Logger
	metrics  *metrics.WorkflowMetrics
	currency enums.Currency
}

// ServiceParams groups the adapter's collaborators.
type ServiceParams struct {
	Repo     Repository
	Gateway  Gateway
	Logger   *logger.Logger
	Metrics  *metrics.WorkflowMetrics
	Currency string
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	currency := enums.CurrencyINR
	if strings.TrimSpace(params.Currency) != "" {
		parsed, err := enums.ParseCurrency(params.Currency)
		if err != nil {
			return nil, err
		}
		currency = parsed
	}
	return &service{
		repo:     params.Repo,
		gateway:  params.Gateway,
		logg:     params.Logger,
		metrics:  params.Metrics,
		currency: currency,
	}, nil
}

// CreateOrder opens a gateway order for the package price. The receipt is
// stable for a given owner until they create another order.
func (s *service) CreateOrder(ctx context.Context, tx *gorm.DB, pkg models.Package, owner models.User) (*GatewayOrder, error) {
	if s.gateway == nil {
		return nil, errGatewayUnavailable()
	}
	count, err := s.repo.WithTx(tx).CountOrdersByOwner(ctx, owner.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count owner orders")
	}
	receipt := ReceiptFor(owner.Email, count)

	req := razorpay.OrderRequest{
		Amount:   s.currency.ToMinor(pkg.Amount),
		Currency: s.currency.String(),
		Receipt:  receipt,
		Notes:    map[string]string{"email": owner.Email},
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"receipt": receipt,
		"package": pkg.Name,
		"amount":  req.Amount,
	})

	started := time.Now()
	order, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		s.metrics.ObserveGateway(time.Since(started), err)
		s.logg.Error(ctx, "gateway order creation failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment gateway unavailable")
	}
	if order.Status != razorpay.StatusCreated {
		statusErr := fmt.Errorf("unexpected gateway order status %q", order.Status)
		s.metrics.ObserveGateway(time.Since(started), statusErr)
		s.logg.Error(ctx, "gateway order not created", statusErr)
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment gateway rejected the order")
	}
	s.metrics.ObserveGateway(time.Since(started), nil)

	out := &GatewayOrder{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
	}
	if out.Amount == 0 {
		out.Amount = req.Amount
	}
	if out.Currency == "" {
		out.Currency = req.Currency
	}
	if out.Receipt == "" {
		out.Receipt = receipt
	}
	s.logg.Info(s.logg.WithField(ctx, "gateway_order_id", out.ID), "gateway order created")
	return out, nil
}

func (s *service) VerifyPayment(gatewayOrderID, paymentID, signature string) error {
	if gatewayOrderID == "" || paymentID == "" || signature == "" {
		return pkgerrors.Validation("payment confirmation is incomplete")
	}
	if s.gateway == nil {
		return errGatewayUnavailable()
	}
	if !s.gateway.VerifyPaymentSignature(gatewayOrderID, paymentID, signature) {
		return pkgerrors.Validation("payment signature mismatch")
	}
	return nil
}

func errGatewayUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeDependency, "payment gateway not configured")
}

// ReceiptFor hashes "<email>:<order count>" into the gateway receipt number.
func ReceiptFor(email string, orderCount int64) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s:%d", email, orderCount)))
	return hex.EncodeToString(sum[:])
}
