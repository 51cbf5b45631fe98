package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/quixapro/quixa-api/internal/http/middleware"
)

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, uuid.New())
	return req.WithContext(ctx)
}

func TestBusinesses_RequiresAuth(t *testing.T) {
	handler := &BusinessesHandler{}

	req := httptest.NewRequest(http.MethodGet, "/businesses", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Status code = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestBusinesses_CreateValidation(t *testing.T) {
	handler := &BusinessesHandler{}

	tests := []struct {
		name          string
		body          string
		expectedError string
	}{
		{"empty body", `{}`, "name is required"},
		{"invalid json", `{invalid}`, "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.Create(rec, authedRequest(http.MethodPost, "/businesses", tt.body))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("Status code = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			var response map[string]string
			json.NewDecoder(rec.Body).Decode(&response)
			if response["error"] != tt.expectedError {
				t.Errorf("Error = %q, want %q", response["error"], tt.expectedError)
			}
		})
	}
}

func TestInvoices_CreateValidation(t *testing.T) {
	handler := &InvoicesHandler{}

	tests := []struct {
		name          string
		body          string
		expectedError string
	}{
		{
			name:          "missing business and customer",
			body:          `{"amount": "100.00", "status": "unpaid"}`,
			expectedError: "business_id and customer_id are required",
		},
		{
			name: "missing amount",
			body: `{"business_id": "3f2f9a1e-17e0-4c1e-9d0a-50f7fa2f0a10",
				"customer_id": "3f2f9a1e-17e0-4c1e-9d0a-50f7fa2f0a11", "status": "unpaid"}`,
			expectedError: "amount is required",
		},
		{
			name: "bad status",
			body: `{"business_id": "3f2f9a1e-17e0-4c1e-9d0a-50f7fa2f0a10",
				"customer_id": "3f2f9a1e-17e0-4c1e-9d0a-50f7fa2f0a11", "amount": "100.00", "status": "void"}`,
			expectedError: "status must be one of: unpaid, paid, overdue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.Create(rec, authedRequest(http.MethodPost, "/invoices", tt.body))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("Status code = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			var response map[string]string
			json.NewDecoder(rec.Body).Decode(&response)
			if response["error"] != tt.expectedError {
				t.Errorf("Error = %q, want %q", response["error"], tt.expectedError)
			}
		})
	}
}

func TestCustomers_InvalidID(t *testing.T) {
	handler := &CustomersHandler{}

	rec := httptest.NewRecorder()
	handler.Get(rec, authedRequest(http.MethodGet, "/customers/not-a-uuid", ""))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status code = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
