package services

import (
	"fmt"
	"sync"
)

// MockPaymentGateway is a mock implementation of PaymentGateway for testing
type MockPaymentGateway struct {
	Secret     string
	FailOrders bool // when true, CreateOrder returns a gateway error

	mu      sync.Mutex
	orders  map[string]*GatewayOrder
	counter int
}

// NewMockPaymentGateway creates a new mock gateway signing with the given secret
func NewMockPaymentGateway(secret string) *MockPaymentGateway {
	return &MockPaymentGateway{
		Secret: secret,
		orders: make(map[string]*GatewayOrder),
	}
}

// SetAsMockForTesting sets this mock as the global gateway instance
func (m *MockPaymentGateway) SetAsMockForTesting() {
	SetPaymentGateway(m)
}

// CreateOrder simulates order creation at the gateway
func (m *MockPaymentGateway) CreateOrder(amount int64, currency, receipt string) (*GatewayOrder, error) {
	if m.FailOrders {
		return nil, fmt.Errorf("mock gateway: order creation failed")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.counter++
	order := &GatewayOrder{
		OrderID:    fmt.Sprintf("order_mock%06d", m.counter),
		Amount:     amount,
		Currency:   currency,
		GatewayKey: "rzp_test_mock",
	}
	m.orders[order.OrderID] = order
	return order, nil
}

// VerifySignature verifies against the mock's secret
func (m *MockPaymentGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return verifyRazorpaySignature(m.Secret, orderID, paymentID, signature)
}

// Sign produces a valid signature for the given order/payment pair
func (m *MockPaymentGateway) Sign(orderID, paymentID string) string {
	return SignPayment(m.Secret, orderID, paymentID)
}
