// invoice/processor_test.go
package invoice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crestlinesc/fbserver/internal/mail"
	"github.com/crestlinesc/fbserver/pkg/fbclient"
)

func envelope(key string, result interface{}) map[string]interface{} {
	return map[string]interface{}{
		"response": map[string]interface{}{
			"result": map[string]interface{}{key: result},
		},
	}
}

func TestProcess_KforceInvoice(t *testing.T) {
	var uploaded, updated bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/accounting/account/acct-1/invoices/invoices/42":
			json.NewEncoder(w).Encode(envelope("invoice", map[string]interface{}{
				"id":           "42",
				"customerid":   "kforce-1",
				"create_date":  "2024-03-13",
				"total_amount": 750.0,
				"lines": []map[string]interface{}{
					{"quantity": 10.0, "amount": 500.0},
					{"quantity": 5.0, "amount": 250.0},
				},
			}))
		case r.Method == http.MethodPost && r.URL.Path == "/uploads/account/acct-1/attachments":
			uploaded = true
			json.NewEncoder(w).Encode(envelope("attachment", map[string]interface{}{
				"jwt":        "att-jwt",
				"media_type": "text/csv",
			}))
		case r.Method == http.MethodPut && r.URL.Path == "/accounting/account/acct-1/invoices/invoices/42":
			var payload map[string]fbclient.InvoicePatch
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.Len(t, payload["invoice"].Attachments, 1)
			require.Equal(t, "att-jwt", payload["invoice"].Attachments[0].JWT)
			updated = true
			json.NewEncoder(w).Encode(envelope("invoice", map[string]interface{}{"id": "42"}))
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := fbclient.New("token", "acct-1", fbclient.WithBaseURL(server.URL))
	processor := NewProcessor(testVendor, "kforce-1", "client@example.com", "sender@example.com",
		mail.NewLogSender(zap.NewNop()), zap.NewNop())

	result, err := processor.Process(context.Background(), client, "42")
	require.NoError(t, err)
	require.Equal(t, StatusProcessed, result.Status)
	require.Equal(t, "42", result.InvoiceID)
	require.True(t, uploaded, "CSV should be uploaded as an attachment")
	require.True(t, updated, "invoice should be updated with the attachment")
}

func TestProcess_IgnoresOtherCustomers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(envelope("invoice", map[string]interface{}{
			"id":         "43",
			"customerid": "someone-else",
		}))
	}))
	defer server.Close()

	client := fbclient.New("token", "acct-1", fbclient.WithBaseURL(server.URL))
	processor := NewProcessor(testVendor, "kforce-1", "client@example.com", "sender@example.com",
		mail.NewLogSender(zap.NewNop()), zap.NewNop())

	result, err := processor.Process(context.Background(), client, "43")
	require.NoError(t, err)
	require.Equal(t, StatusIgnored, result.Status)
	require.Equal(t, "Not for Kforce client", result.Message)
}

func TestProcess_FetchFailurePropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := fbclient.New("token", "acct-1", fbclient.WithBaseURL(server.URL))
	processor := NewProcessor(testVendor, "kforce-1", "client@example.com", "sender@example.com",
		mail.NewLogSender(zap.NewNop()), zap.NewNop())

	_, err := processor.Process(context.Background(), client, "44")
	require.Error(t, err)

	var authErr *fbclient.AuthError
	require.ErrorAs(t, err, &authErr, fmt.Sprintf("expected auth failure, got %v", err))
}
