package payment_gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type razorpayService struct {
	BaseUrl       string
	KeyID         string
	KeySecret     string
	WebhookSecret string
	CallbackUrl   string
	client        *http.Client
	Log           *zap.Logger
}

// NewRazorpayService builds the gateway client once at startup; the
// coordinator receives it through its constructor, never through a hidden
// global.
func NewRazorpayService(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.PaymentGatewayService {
	timeout := time.Duration(internalConfig.PaymentGateway.TimeoutInSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &razorpayService{
		BaseUrl:       internalConfig.PaymentGateway.BaseUrl,
		KeyID:         internalConfig.PaymentGateway.KeyID,
		KeySecret:     internalConfig.PaymentGateway.KeySecret,
		WebhookSecret: internalConfig.PaymentGateway.WebhookSecret,
		CallbackUrl:   internalConfig.PaymentGateway.CallbackUrl,
		client:        &http.Client{Timeout: timeout},
		Log:           logger,
	}
}

type orderAPIResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type paymentAPIResponse struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Method  string `json:"method"`
	Email   string `json:"email"`
}

type refundAPIResponse struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
}

func (s *razorpayService) CreateOrder(ctx context.Context, amount float64, currency, receipt string) (*contracts.GatewayOrder, error) {
	payload := map[string]interface{}{
		"amount":   amountInPaise(amount),
		"currency": currency,
		"receipt":  receipt,
	}

	var out orderAPIResponse
	if err := s.post(ctx, constvars.GatewayOrdersPath, payload, &out); err != nil {
		return nil, exceptions.ErrGatewayCreateOrder(err)
	}

	return &contracts.GatewayOrder{
		OrderID:       out.ID,
		AmountInPaise: out.Amount,
		Currency:      out.Currency,
		Receipt:       out.Receipt,
	}, nil
}

func (s *razorpayService) FetchPayment(ctx context.Context, paymentID string) (*contracts.GatewayPayment, error) {
	var out paymentAPIResponse
	if err := s.get(ctx, fmt.Sprintf("%s/%s", constvars.GatewayPaymentsPath, paymentID), &out); err != nil {
		return nil, exceptions.ErrGatewayFetchPayment(err)
	}
	return &contracts.GatewayPayment{
		PaymentID: out.ID,
		OrderID:   out.OrderID,
		Status:    out.Status,
		Method:    out.Method,
		Email:     out.Email,
	}, nil
}

func (s *razorpayService) Refund(ctx context.Context, paymentID string, amount float64) (*contracts.GatewayRefund, error) {
	payload := map[string]interface{}{
		"amount": amountInPaise(amount),
	}

	var out refundAPIResponse
	if err := s.post(ctx, fmt.Sprintf("%s/%s/refund", constvars.GatewayPaymentsPath, paymentID), payload, &out); err != nil {
		return nil, exceptions.ErrGatewayRefund(err)
	}
	return &contracts.GatewayRefund{
		RefundID:  out.ID,
		PaymentID: out.PaymentID,
	}, nil
}

// VerifyPaymentSignature checks the redirect-callback signature, an
// HMAC-SHA256 of "<orderID>|<paymentID>" under the key secret.
func (s *razorpayService) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	expected := hmacSHA256Hex([]byte(orderID+"|"+paymentID), s.KeySecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the webhook signature, an HMAC-SHA256 of the
// raw request body under the webhook secret.
func (s *razorpayService) VerifyWebhookSignature(payload []byte, signature string) bool {
	expected := hmacSHA256Hex(payload, s.WebhookSecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// CheckoutOptions is the opaque payload the gateway's client SDK consumes to
// open the checkout for a created order.
func (s *razorpayService) CheckoutOptions(orderID string, amount float64, prefillEmail string) map[string]interface{} {
	return map[string]interface{}{
		"key":          s.KeyID,
		"amount":       amountInPaise(amount),
		"currency":     constvars.DefaultCurrency,
		"order_id":     orderID,
		"prefill":      map[string]interface{}{"email": prefillEmail},
		"callback_url": s.CallbackUrl,
	}
}

func (s *razorpayService) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseUrl+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	return s.do(req, out)
}

func (s *razorpayService) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseUrl+path, nil)
	if err != nil {
		return err
	}
	return s.do(req, out)
}

func (s *razorpayService) do(req *http.Request, out interface{}) error {
	req.SetBasicAuth(s.KeyID, s.KeySecret)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	const maxBody = 1 << 20
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.Log.Error("razorpayService gateway returned non-2xx",
			zap.String("path", req.URL.Path),
			zap.Int("status_code", resp.StatusCode),
		)
		return fmt.Errorf(constvars.ErrDevGatewayBadResponse, resp.StatusCode)
	}

	return json.Unmarshal(raw, out)
}

func amountInPaise(amount float64) int64 {
	return int64(amount * 100)
}

func hmacSHA256Hex(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
