package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"nh360fastag/database"
)

func seedSupplierTag(t *testing.T, serial string, supplierID uint, status, purchaseType string) {
	t.Helper()
	tag := database.FasTag{
		TagSerial:     serial,
		BankName:      "IDFC",
		FastagClass:   "class4",
		BatchNumber:   "B1",
		SupplierID:    &supplierID,
		PurchasePrice: 100,
		PurchaseType:  purchaseType,
		Status:        status,
	}
	if err := database.DB.Create(&tag).Error; err != nil {
		t.Fatalf("seed tag: %v", err)
	}
}

func TestSupplierSummary(t *testing.T) {
	setupTestDB(t)
	r := testRouter()

	s1 := database.Supplier{Name: "Axis Distributors", Status: "active"}
	s2 := database.Supplier{Name: "Highway Supplies", Status: "active"}
	for _, s := range []*database.Supplier{&s1, &s2} {
		if err := database.DB.Create(s).Error; err != nil {
			t.Fatalf("seed supplier: %v", err)
		}
	}

	seedSupplierTag(t, "S1-0001", s1.ID, database.FasTagStatusInStock, "paid")
	seedSupplierTag(t, "S1-0002", s1.ID, database.FasTagStatusAssigned, "paid")
	seedSupplierTag(t, "S1-0003", s1.ID, database.FasTagStatusSold, "credit")
	seedSupplierTag(t, "S2-0001", s2.ID, database.FasTagStatusInStock, "credit")

	w := doJSON(t, r, "GET", "/api/reports/supplier-summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("supplier-summary status = %d, body %s", w.Code, w.Body.String())
	}

	var rows []SupplierSummaryRow
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	// Ordered by name, so Axis comes first
	axis := rows[0]
	if axis.SupplierID != s1.ID {
		t.Fatalf("first row supplier = %d, want %d", axis.SupplierID, s1.ID)
	}
	if axis.Total != 3 || axis.Available != 1 || axis.Assigned != 1 || axis.Sold != 1 {
		t.Errorf("axis counts = %+v", axis)
	}
	if axis.Paid != 2 || axis.Credit != 1 {
		t.Errorf("axis paid/credit = %d/%d, want 2/1", axis.Paid, axis.Credit)
	}

	highway := rows[1]
	if highway.Total != 1 || highway.Credit != 1 || highway.Paid != 0 {
		t.Errorf("highway counts = %+v", highway)
	}
}

func TestSupplierSummaryEmptySupplier(t *testing.T) {
	setupTestDB(t)
	r := testRouter()

	s := database.Supplier{Name: "No Stock Yet", Status: "active"}
	if err := database.DB.Create(&s).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}

	w := doJSON(t, r, "GET", "/api/reports/supplier-summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("supplier-summary status = %d, body %s", w.Code, w.Body.String())
	}

	var rows []SupplierSummaryRow
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Total != 0 || rows[0].Paid != 0 || rows[0].Credit != 0 {
		t.Errorf("empty supplier counts = %+v", rows[0])
	}
}
