package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"nh360fastag/database"
)

func TestGetAgentHierarchyAggregatesCounts(t *testing.T) {
	setupTestDB(t)
	r := testRouter()

	root := seedAgent(t, "asm", nil)
	mid := seedAgent(t, "shop", &root.ID)
	leaf := seedAgent(t, "toll", &mid.ID)

	// root holds 2, mid 3, leaf 5
	for i := 0; i < 2; i++ {
		seedTag(t, fmt.Sprintf("IDFC-01-%04d", i), "B1", &root.ID)
	}
	for i := 10; i < 13; i++ {
		seedTag(t, fmt.Sprintf("IDFC-01-%04d", i), "B1", &mid.ID)
	}
	for i := 20; i < 25; i++ {
		seedTag(t, fmt.Sprintf("IDFC-01-%04d", i), "B1", &leaf.ID)
	}

	w := doJSON(t, r, "GET", fmt.Sprintf("/api/agents/%d/hierarchy", root.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("hierarchy status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Hierarchy database.AgentNode `json:"hierarchy"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode hierarchy: %v", err)
	}

	if resp.Hierarchy.Own.Total != 2 {
		t.Errorf("root own total = %d, want 2", resp.Hierarchy.Own.Total)
	}
	if resp.Hierarchy.WithChildren.Total != 10 {
		t.Errorf("root total with children = %d, want 10", resp.Hierarchy.WithChildren.Total)
	}
	if len(resp.Hierarchy.Children) != 1 {
		t.Fatalf("root children = %d, want 1", len(resp.Hierarchy.Children))
	}
	if resp.Hierarchy.Children[0].WithChildren.Total != 8 {
		t.Errorf("mid total with children = %d, want 8", resp.Hierarchy.Children[0].WithChildren.Total)
	}
}

func TestGetAgentHierarchyUnknownAgent(t *testing.T) {
	setupTestDB(t)
	r := testRouter()

	w := doJSON(t, r, "GET", "/api/agents/9999/hierarchy", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown agent, got %d", w.Code)
	}
}

func TestGetAgentsRoleFilter(t *testing.T) {
	setupTestDB(t)
	r := testRouter()

	seedAgent(t, "agent-a", nil)
	asm := database.User{
		Name: "asm-1", Email: "asm@test", PasswordHash: "x",
		Role: database.RoleASM, Status: database.UserStatusActive, Phone: "1", Area: "north",
	}
	if err := database.DB.Create(&asm).Error; err != nil {
		t.Fatalf("seed asm: %v", err)
	}

	w := doJSON(t, r, "GET", "/api/agents/all?roles=asm", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("agents status = %d", w.Code)
	}
	var agents []database.User
	if err := json.Unmarshal(w.Body.Bytes(), &agents); err != nil {
		t.Fatalf("decode agents: %v", err)
	}
	if len(agents) != 1 || agents[0].Role != database.RoleASM {
		t.Errorf("role filter returned %d agents, want 1 asm", len(agents))
	}

	w = doJSON(t, r, "GET", "/api/agents/all?roles=bogus", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown role, got %d", w.Code)
	}
}

func TestAgentDetailsCountsReassigned(t *testing.T) {
	setupTestDB(t)
	r := testRouter()

	from := seedAgent(t, "agent-a", nil)
	to := seedAgent(t, "agent-b", nil)
	seedTag(t, "IDFC-01-0001", "B1", &from.ID)

	w := doJSON(t, r, "POST", "/api/fastags/transfer", map[string]interface{}{
		"from_agent_id": from.ID,
		"to_agent_id":   strconv.Itoa(int(to.ID)),
		"class_type":    "class4",
		"batch_number":  "B1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("transfer status = %d", w.Code)
	}

	w = doJSON(t, r, "GET", fmt.Sprintf("/api/agents/%d/details", to.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("details status = %d", w.Code)
	}
	var resp struct {
		Total      int64 `json:"total"`
		Assigned   int64 `json:"assigned"`
		Reassigned int64 `json:"reassigned"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if resp.Total != 1 || resp.Assigned != 1 {
		t.Errorf("total/assigned = %d/%d, want 1/1", resp.Total, resp.Assigned)
	}
	if resp.Reassigned != 1 {
		t.Errorf("reassigned = %d, want 1 (computed from audit log)", resp.Reassigned)
	}
}

func TestAvailableSummaryGroupsByPrefix(t *testing.T) {
	setupTestDB(t)
	r := testRouter()

	seedTag(t, "608116-030-0912712", "B1", nil)
	seedTag(t, "608116-030-0912713", "B1", nil)
	seedTag(t, "608117-040-0000001", "B2", nil)

	w := doJSON(t, r, "GET", "/api/reports/available-summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary status = %d", w.Code)
	}
	var rows []AvailableSummaryRow
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("summary rows = %d, want 2", len(rows))
	}
	if rows[0].SerialPrefix != "608116-030-" || rows[0].Count != 2 {
		t.Errorf("first group = %+v", rows[0])
	}
	if rows[0].FirstSerial != "608116-030-0912712" || rows[0].LastSerial != "608116-030-0912713" {
		t.Errorf("first group bounds = %s .. %s", rows[0].FirstSerial, rows[0].LastSerial)
	}

	// Same query with no intervening mutation must return identical rows
	again := doJSON(t, r, "GET", "/api/reports/available-summary", nil)
	if w.Body.String() != again.Body.String() {
		t.Error("summary not stable across identical calls")
	}
}
