package controllers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"nh360fastag/config"
	"nh360fastag/database"
)

// setupTestDB points the global gorm handle at a throwaway SQLite file,
// migrates the schema and opens the raw handle on the same file
func setupTestDB(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.InitConfig()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&database.User{},
		&database.Supplier{},
		&database.FasTag{},
		&database.Ticket{},
		&database.Payment{},
		&database.AuditLog{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	database.DB = db

	legacy, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open raw test db: %v", err)
	}
	t.Cleanup(func() { legacy.Close() })
	database.LegacyDB = legacy
}

// testRouter registers the handlers under the real paths with a stub auth
// context (admin, user id 1)
func testRouter() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", uint(1))
		c.Set("email", "admin@test")
		c.Set("role", database.RoleAdmin)
		c.Next()
	})

	r.GET("/api/fastags/all", GetAllFastags)
	r.GET("/api/fastags", GetFastags)
	r.POST("/api/fastags/add-item", AddFastag)
	r.POST("/api/fastags/bulk-add", BulkAddFastags)
	r.PUT("/api/fastags/:id", UpdateFastag)
	r.POST("/api/fastags/assign-one", AssignFastag)
	r.POST("/api/fastags/assign", BulkAssignFastags)
	r.POST("/api/fastags/transfer", TransferFastags)
	r.POST("/api/fastags/bulk-transfer", BulkTransferFastags)

	r.GET("/api/agents/all", GetAgents)
	r.GET("/api/agents/hierarchy", GetAgentForest)
	r.GET("/api/agents/:id/hierarchy", GetAgentHierarchy)
	r.GET("/api/agents/:id/details", GetAgentDetails)

	r.GET("/api/reports/available-summary", GetAvailableSummary)
	r.GET("/api/reports/supplier-summary", GetSupplierSummary)

	r.GET("/api/payments/mine", GetMyPayments)

	r.GET("/api/tickets", GetTickets)
	r.GET("/api/tickets/:id", GetTicketByID)
	r.POST("/api/tickets", CreateTicket)
	r.POST("/api/tickets/:id/sub-tickets", CreateSubTicket)
	r.PUT("/api/tickets/:id", UpdateTicket)

	return r
}

// doJSON performs a request with a JSON body and returns the recorder
func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// seedAgent creates an active agent and returns it
func seedAgent(t *testing.T, name string, parentID *uint) database.User {
	t.Helper()
	agent := database.User{
		Name:         name,
		Email:        name + "@test",
		PasswordHash: "x",
		Role:         database.RoleAgent,
		Status:       database.UserStatusActive,
		Phone:        name,
		ParentUserID: parentID,
	}
	if err := database.DB.Create(&agent).Error; err != nil {
		t.Fatalf("seed agent: %v", err)
	}
	return agent
}

// seedTag creates one tag; agentID nil means warehouse stock
func seedTag(t *testing.T, serial, batch string, agentID *uint) database.FasTag {
	t.Helper()
	status := database.FasTagStatusInStock
	if agentID != nil {
		status = database.FasTagStatusAssigned
	}
	tag := database.FasTag{
		TagSerial:         serial,
		BankName:          "IDFC",
		FastagClass:       "class4",
		BatchNumber:       batch,
		PurchasePrice:     100,
		PurchaseType:      "paid",
		Status:            status,
		AssignedToAgentID: agentID,
	}
	if err := database.DB.Create(&tag).Error; err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	return tag
}
