package payment

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmeshcher/homeservices/internal/validation"
)

var testCard = validation.Card{Number: "4242 4242 4242 4242", ExpMonth: 12, ExpYear: 2034, CVC: "123"}

func TestIntentID(t *testing.T) {
	tests := []struct {
		secret  string
		want    string
		wantErr bool
	}{
		{secret: "pi_3Nabc_secret_XYZ", want: "pi_3Nabc"},
		{secret: "pi_3Nabc", wantErr: true},
		{secret: "_secret_XYZ", wantErr: true},
		{secret: "pi_3Nabc_secret_", wantErr: true},
		{secret: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.secret, func(t *testing.T) {
			got, err := IntentID(tt.secret)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidClientSecret) {
					t.Fatalf("err = %v, want ErrInvalidClientSecret", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("IntentID = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestCreatePaymentMethod_OK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/payment_methods" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer pk_test_1" {
			t.Fatalf("Authorization = %q", got)
		}
		if r.Header.Get("Idempotency-Key") == "" {
			t.Fatalf("Idempotency-Key not set")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("type") != "card" || r.PostForm.Get("card[number]") != "4242424242424242" {
			t.Fatalf("unexpected form: %v", r.PostForm)
		}
		if r.PostForm.Get("card[exp_month]") != "12" || r.PostForm.Get("card[exp_year]") != "2034" {
			t.Fatalf("unexpected expiry: %v", r.PostForm)
		}
		_, _ = io.WriteString(w, `{"id": "pm_1", "object": "payment_method"}`)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "pk_test_1", time.Second)

	id, err := client.CreatePaymentMethod(context.Background(), testCard)
	if err != nil {
		t.Fatalf("CreatePaymentMethod error: %v", err)
	}
	if id != "pm_1" {
		t.Fatalf("id = %q, want pm_1", id)
	}
}

func TestConfirmIntent_Declined(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_intents/pi_9/confirm" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		_ = r.ParseForm()
		if r.PostForm.Get("client_secret") != "pi_9_secret_abc" || r.PostForm.Get("payment_method") != "pm_1" {
			t.Fatalf("unexpected form: %v", r.PostForm)
		}
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = io.WriteString(w, `{"error": {"type": "card_error", "code": "card_declined", "decline_code": "insufficient_funds", "message": "Your card has insufficient funds."}}`)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "pk_test_1", time.Second)

	_, err := client.ConfirmIntent(context.Background(), "pi_9_secret_abc", "pm_1")

	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if perr.Message != "Your card has insufficient funds." || perr.DeclineCode != "insufficient_funds" {
		t.Fatalf("unexpected error: %+v", perr)
	}
	if perr.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("status = %d", perr.StatusCode)
	}
}

func TestConfirmIntent_Succeeded(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id": "pi_9", "status": "succeeded"}`)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "pk_test_1", time.Second)

	intent, err := client.ConfirmIntent(context.Background(), "pi_9_secret_abc", "pm_1")
	if err != nil {
		t.Fatalf("ConfirmIntent error: %v", err)
	}
	if intent.ID != "pi_9" || intent.Status != StatusSucceeded {
		t.Fatalf("unexpected intent: %+v", intent)
	}
}

func TestPost_NonJSONError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "pk_test_1", time.Second)

	_, err := client.CreatePaymentMethod(context.Background(), testCard)
	var perr *Error
	if !errors.As(err, &perr) || perr.StatusCode != http.StatusBadGateway {
		t.Fatalf("err = %v, want *Error with 502", err)
	}
}

func TestClient_NotConfigured(t *testing.T) {
	client := NewClient("", "", 0)
	if client.baseURL != DefaultBaseURL {
		t.Fatalf("baseURL = %q, want %q", client.baseURL, DefaultBaseURL)
	}

	if _, err := client.CreatePaymentMethod(context.Background(), testCard); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}
