package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/framewave-studio/framewave-portal-api/apperrors"
	"github.com/framewave-studio/framewave-portal-api/config"
)

// GatewayOrder represents an order created at the payment gateway
type GatewayOrder struct {
	OrderID    string `json:"order_id"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	GatewayKey string `json:"gateway_key"` // public key the client checkout needs
}

// PaymentGateway defines the interface for payment gateway operations
type PaymentGateway interface {
	// CreateOrder registers an order with the gateway and returns its id
	CreateOrder(amount int64, currency, receipt string) (*GatewayOrder, error)

	// VerifySignature checks the gateway's payment signature
	VerifySignature(orderID, paymentID, signature string) bool
}

// RazorpayGateway implements PaymentGateway against the Razorpay orders API
type RazorpayGateway struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

var paymentGatewayInstance PaymentGateway

// InitPaymentGateway initializes the gateway from configuration
func InitPaymentGateway(cfg *config.Config) PaymentGateway {
	paymentGatewayInstance = &RazorpayGateway{
		keyID:     cfg.RazorpayKeyID,
		keySecret: cfg.RazorpayKeySecret,
		baseURL:   cfg.RazorpayBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
	return paymentGatewayInstance
}

// GetPaymentGateway returns the initialized gateway instance
func GetPaymentGateway() PaymentGateway {
	return paymentGatewayInstance
}

// SetPaymentGateway sets the gateway instance (primarily for testing)
func SetPaymentGateway(gw PaymentGateway) {
	paymentGatewayInstance = gw
}

// razorpayOrderRequest is the outbound order-creation payload
type razorpayOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// razorpayOrderResponse is the gateway's order-creation response
type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// CreateOrder registers an order with Razorpay
func (g *RazorpayGateway) CreateOrder(amount int64, currency, receipt string) (*GatewayOrder, error) {
	payload, err := json.Marshal(razorpayOrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to encode order request", err)
	}

	req, err := http.NewRequest(http.MethodPost, g.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to build order request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, "Payment gateway unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, "Failed to read gateway response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.New(apperrors.ErrCodeGateway,
			fmt.Sprintf("Gateway order creation failed with status %d", resp.StatusCode))
	}

	var orderResp razorpayOrderResponse
	if err := json.Unmarshal(body, &orderResp); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeGateway, "Invalid gateway response", err)
	}

	return &GatewayOrder{
		OrderID:    orderResp.ID,
		Amount:     orderResp.Amount,
		Currency:   orderResp.Currency,
		GatewayKey: g.keyID,
	}, nil
}

// VerifySignature checks the HMAC-SHA256 signature Razorpay attaches to a
// completed checkout. The signed message is "<orderID>|<paymentID>".
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return verifyRazorpaySignature(g.keySecret, orderID, paymentID, signature)
}

func verifyRazorpaySignature(secret, orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignPayment computes the signature the gateway would produce for a payment.
// Used by tests and by the mock gateway.
func SignPayment(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
