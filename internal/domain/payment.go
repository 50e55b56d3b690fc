package domain

import "time"

type PaymentStatus string

// Payment status transitions are created->paid or created->failed only.
// paid is terminal; a paid row is never rewritten.
const (
	PaymentCreated PaymentStatus = "created"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment is one attempt to pay for (user, event) and the durable source of
// truth for whether a gateway order has been settled.
type Payment struct {
	ID                int64         `json:"id"`
	UserID            int64         `json:"user_id"`
	EventID           int64         `json:"event_id"`
	OrganizerID       int64         `json:"organizer_id"`
	Amount            int64         `json:"amount"`
	GatewayOrderID    string        `json:"gateway_order_id"`
	GatewayPaymentID  *string       `json:"gateway_payment_id,omitempty"`
	Status            PaymentStatus `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// OrderResponse is returned to the browser so it can open the gateway
// checkout widget.
type OrderResponse struct {
	Success    bool   `json:"success"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
	GatewayKey string `json:"razorpayKey"`
	PaymentID  int64  `json:"paymentId"`
}

// VerifyPaymentRequest is the confirmation payload the client relays after
// the gateway reports success. Field names follow the gateway's checkout
// callback contract.
type VerifyPaymentRequest struct {
	OrderID          string `json:"razorpay_order_id"`
	GatewayPaymentID string `json:"razorpay_payment_id"`
	Signature        string `json:"razorpay_signature"`
	PaymentID        int64  `json:"paymentId"`
}

func (r *VerifyPaymentRequest) Complete() bool {
	return r.OrderID != "" && r.GatewayPaymentID != "" && r.Signature != "" && r.PaymentID > 0
}
