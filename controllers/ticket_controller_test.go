package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"nh360fastag/database"
)

func TestCreateTicketDailySequence(t *testing.T) {
	setupTestDB(t)
	r := testRouter()

	day := time.Now().Format("20060102")

	for i := 1; i <= 3; i++ {
		w := doJSON(t, r, "POST", "/api/tickets", map[string]interface{}{
			"subject":        fmt.Sprintf("Tag not read at toll %d", i),
			"customer_name":  "Ravi",
			"customer_phone": "9876543210",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create ticket status = %d, body %s", w.Code, w.Body.String())
		}

		var ticket database.Ticket
		if err := json.Unmarshal(w.Body.Bytes(), &ticket); err != nil {
			t.Fatalf("decode ticket: %v", err)
		}
		want := fmt.Sprintf("NH360-%s-%03d", day, i)
		if ticket.TicketNo != want {
			t.Errorf("ticket_no = %q, want %q", ticket.TicketNo, want)
		}
		if ticket.Status != database.TicketStatusOpen {
			t.Errorf("status = %q, want open", ticket.Status)
		}
	}
}

func TestCreateSubTicketInheritsCustomer(t *testing.T) {
	setupTestDB(t)
	r := testRouter()

	w := doJSON(t, r, "POST", "/api/tickets", map[string]interface{}{
		"subject":        "Recharge failed",
		"customer_name":  "Meena",
		"customer_phone": "9000000001",
		"vehicle_number": "KL-09-AB-1234",
		"priority":       "high",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create parent status = %d", w.Code)
	}
	var parent database.Ticket
	if err := json.Unmarshal(w.Body.Bytes(), &parent); err != nil {
		t.Fatalf("decode parent: %v", err)
	}

	w = doJSON(t, r, "POST", fmt.Sprintf("/api/tickets/%d/sub-tickets", parent.ID), map[string]interface{}{
		"subject": "Escalate to bank",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create sub-ticket status = %d, body %s", w.Code, w.Body.String())
	}
	var sub database.Ticket
	if err := json.Unmarshal(w.Body.Bytes(), &sub); err != nil {
		t.Fatalf("decode sub-ticket: %v", err)
	}

	if sub.ParentTicketID == nil || *sub.ParentTicketID != parent.ID {
		t.Errorf("parent_ticket_id = %v, want %d", sub.ParentTicketID, parent.ID)
	}
	if sub.CustomerName != "Meena" || sub.CustomerPhone != "9000000001" || sub.VehicleNumber != "KL-09-AB-1234" {
		t.Errorf("customer fields not inherited: %+v", sub)
	}
	if sub.Priority != "high" {
		t.Errorf("priority = %q, want inherited high", sub.Priority)
	}
	if sub.TicketNo == parent.TicketNo {
		t.Error("sub-ticket reused parent ticket number")
	}
}

func TestUpdateTicketUnknownStatus(t *testing.T) {
	setupTestDB(t)
	r := testRouter()

	w := doJSON(t, r, "POST", "/api/tickets", map[string]interface{}{
		"subject":        "Blacklist query",
		"customer_name":  "Ali",
		"customer_phone": "9000000002",
	})
	var ticket database.Ticket
	if err := json.Unmarshal(w.Body.Bytes(), &ticket); err != nil {
		t.Fatalf("decode ticket: %v", err)
	}

	w = doJSON(t, r, "PUT", fmt.Sprintf("/api/tickets/%d", ticket.ID), map[string]interface{}{
		"status": "escalated",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", w.Code)
	}
}
