package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testSecret = "test-key-secret"

func TestVerifySignature(t *testing.T) {
	sig := Sign("order_123", "pay_456", testSecret)

	if !VerifySignature("order_123", "pay_456", sig, testSecret) {
		t.Error("valid signature rejected")
	}
}

func TestVerifySignatureMismatch(t *testing.T) {
	sig := Sign("order_123", "pay_456", testSecret)

	cases := []struct {
		name               string
		orderID, paymentID string
		signature          string
		secret             string
	}{
		{"wrong order", "order_999", "pay_456", sig, testSecret},
		{"wrong payment", "order_123", "pay_999", sig, testSecret},
		{"wrong secret", "order_123", "pay_456", sig, "other-secret"},
		{"garbage signature", "order_123", "pay_456", "deadbeef", testSecret},
		{"empty signature", "order_123", "pay_456", "", testSecret},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if VerifySignature(tc.orderID, tc.paymentID, tc.signature, tc.secret) {
				t.Error("invalid signature accepted")
			}
		})
	}
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders" {
			t.Errorf("path: got %q, want /orders", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key_id" || pass != testSecret {
			t.Errorf("basic auth: got %q/%q", user, pass)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["currency"] != "INR" {
			t.Errorf("currency: got %v, want INR", body["currency"])
		}

		json.NewEncoder(w).Encode(Order{
			ID:       "order_test",
			Amount:   int64(body["amount"].(float64)),
			Currency: "INR",
			Receipt:  body["receipt"].(string),
		})
	}))
	defer srv.Close()

	c := NewRazorpayClient("key_id", testSecret, srv.URL)

	order, err := c.CreateOrder(context.Background(), 50000, "r_1")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.ID != "order_test" {
		t.Errorf("order ID: got %q", order.ID)
	}
	if order.Amount != 50000 {
		t.Errorf("amount: got %d, want 50000", order.Amount)
	}
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewRazorpayClient("key_id", testSecret, srv.URL)

	if _, err := c.CreateOrder(context.Background(), 100, "r_2"); err == nil {
		t.Error("expected error on gateway failure")
	}
}
