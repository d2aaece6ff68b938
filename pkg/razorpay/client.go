package razorpay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	rzp "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"

	"github.com/indiereel/backend/pkg/config"
	"github.com/indiereel/backend/pkg/logger"
)

const (
	testEnv = "test"
	liveEnv = "live"

	// StatusCreated is the only order status accepted from the gateway.
	StatusCreated = "created"
)

var (
	errKeyIDRequired  = errors.New("razorpay key id is required")
	errSecretRequired = errors.New("razorpay key secret is required")
	errInvalidEnv     = fmt.Errorf("razorpay environment must be %q or %q", testEnv, liveEnv)
)

type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Client wraps the Razorpay SDK with typed order requests.
type Client struct {
	orders      orderAPI
	keySecret   string
	environment string
	currency    string
}

// OrderRequest is the payload sent when opening a gateway order.
type OrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// Order is the subset of the gateway response persisted on our side.
type Order struct {
	ID       string
	Status   string
	Amount   int64
	Currency string
	Receipt  string
}

// NewClient initializes the Razorpay SDK with the configured key pair.
func NewClient(ctx context.Context, cfg config.RazorpayConfig, logg *logger.Logger) (*Client, error) {
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}
	keyID := strings.TrimSpace(cfg.KeyID)
	if keyID == "" {
		return nil, errKeyIDRequired
	}
	secret := strings.TrimSpace(cfg.KeySecret)
	if secret == "" {
		return nil, errSecretRequired
	}
	if err := validateKeyID(env, keyID); err != nil {
		return nil, err
	}

	api := rzp.NewClient(keyID, secret)

	if logg != nil {
		logg.Info(ctx, fmt.Sprintf("razorpay client initialized (%s)", env))
	}

	return &Client{
		orders:      api.Order,
		keySecret:   secret,
		environment: env,
		currency:    strings.ToUpper(strings.TrimSpace(cfg.Currency)),
	}, nil
}

// Environment reports the normalized Razorpay environment in use.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// Currency is the default charge currency.
func (c *Client) Currency() string {
	if c == nil || c.currency == "" {
		return "INR"
	}
	return c.currency
}

// CreateOrder opens a capture-on-payment order. The SDK has no context
// support, so cancellation abandons the in-flight call.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if c == nil || c.orders == nil {
		return nil, errors.New("razorpay client not initialized")
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("order amount must be positive, got %d", req.Amount)
	}
	currency := req.Currency
	if currency == "" {
		currency = c.Currency()
	}
	notes := map[string]interface{}{}
	for k, v := range req.Notes {
		notes[k] = v
	}
	data := map[string]interface{}{
		"amount":          req.Amount,
		"currency":        currency,
		"receipt":         req.Receipt,
		"payment_capture": 1,
		"notes":           notes,
	}

	type result struct {
		body map[string]interface{}
		err  error
	}
	done := make(chan result, 1)
	go func() {
		body, err := c.orders.Create(data, nil)
		done <- result{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("razorpay create order: %w", res.err)
		}
		return decodeOrder(res.body), nil
	}
}

// VerifyPaymentSignature checks the checkout callback signature with the key secret.
func (c *Client) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	if c == nil || c.keySecret == "" || signature == "" {
		return false
	}
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	return utils.VerifyPaymentSignature(params, signature, c.keySecret)
}

func decodeOrder(body map[string]interface{}) *Order {
	order := &Order{}
	if body == nil {
		return order
	}
	order.ID, _ = body["id"].(string)
	order.Status, _ = body["status"].(string)
	order.Currency, _ = body["currency"].(string)
	order.Receipt, _ = body["receipt"].(string)
	switch v := body["amount"].(type) {
	case float64:
		order.Amount = int64(v)
	case int64:
		order.Amount = v
	case int:
		order.Amount = int64(v)
	}
	return order
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = testEnv
	}
	switch env {
	case testEnv, liveEnv:
		return env, nil
	default:
		return "", errInvalidEnv
	}
}

func validateKeyID(env, key string) error {
	switch env {
	case testEnv:
		if strings.HasPrefix(key, "rzp_test_") {
			return nil
		}
		return fmt.Errorf("razorpay environment %q requires a test key (rzp_test_)", testEnv)
	case liveEnv:
		if strings.HasPrefix(key, "rzp_live_") {
			return nil
		}
		return fmt.Errorf("razorpay environment %q requires a live key (rzp_live_)", liveEnv)
	default:
		return errInvalidEnv
	}
}
