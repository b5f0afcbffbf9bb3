package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"nh360fastag/database"
)

func TestGetMyPaymentsFiltersByCustomer(t *testing.T) {
	setupTestDB(t)
	r := testRouter()

	tag := seedTag(t, "IDFC-01-0001", "B1", nil)
	for _, p := range []database.Payment{
		{CustomerID: 1, FasTagID: tag.ID, Amount: 500, Status: database.PaymentStatusPaid, TransactionID: "ord_1"},
		{CustomerID: 2, FasTagID: tag.ID, Amount: 450, Status: database.PaymentStatusPaid, TransactionID: "ord_2"},
	} {
		if err := database.DB.Create(&p).Error; err != nil {
			t.Fatalf("seed payment: %v", err)
		}
	}

	// The stub auth context runs as user 1
	w := doJSON(t, r, "GET", "/api/payments/mine", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("payments/mine status = %d, body %s", w.Code, w.Body.String())
	}

	var payments []database.Payment
	if err := json.Unmarshal(w.Body.Bytes(), &payments); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("payments = %d, want 1", len(payments))
	}
	if payments[0].CustomerID != 1 || payments[0].TransactionID != "ord_1" {
		t.Errorf("wrong payment returned: %+v", payments[0])
	}
}
