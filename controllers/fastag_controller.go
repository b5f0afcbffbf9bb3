package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"nh360fastag/config"
	"nh360fastag/database"
	"nh360fastag/utils"
)

// AddFastagRequest contains the data for a single tag insert
type AddFastagRequest struct {
	TagSerial     string   `json:"tag_serial" binding:"required"`
	BankName      string   `json:"bank_name" binding:"required"`
	FastagClass   string   `json:"fastag_class" binding:"required,oneof=class4 class5 class6 class7 class8 class9 class10 class11 class12"`
	BatchNumber   string   `json:"batch_number" binding:"required"`
	SupplierID    *uint    `json:"supplier_id"`
	PurchasePrice *float64 `json:"purchase_price" binding:"required"`
	PurchaseType  string   `json:"purchase_type"`
	PurchaseDate  string   `json:"purchase_date"`
}

// BulkAddFastagsRequest inserts a whole purchase batch in one call. Serials
// may be explicit, or a start/end pair to expand server side.
type BulkAddFastagsRequest struct {
	SupplierID    *uint    `json:"supplier_id"`
	FastagClass   string   `json:"fastag_class" binding:"required"`
	BankName      string   `json:"bank_name" binding:"required"`
	BatchNumber   string   `json:"batch_number" binding:"required"`
	PurchasePrice *float64 `json:"purchase_price" binding:"required"`
	PaymentType   string   `json:"payment_type"`
	PurchaseDate  string   `json:"purchase_date"`
	Serials       []string `json:"serials"`
	SerialStart   string   `json:"serial_start"`
	SerialEnd     string   `json:"serial_end"`
}

// AssignFastagRequest assigns one tag by serial
type AssignFastagRequest struct {
	TagSerial string `json:"tag_serial" binding:"required"`
	AgentID   uint   `json:"agent_id" binding:"required"`
}

// BulkAssignRequest assigns up to Count in-stock tags to an agent
type BulkAssignRequest struct {
	AgentID uint `json:"agentId" binding:"required"`
	Count   int  `json:"count" binding:"required,gt=0"`
}

// TransferRequest moves every assigned tag matching class and batch from
// one agent to another. ToAgentID accepts the literal "admin" to return
// stock to the warehouse.
type TransferRequest struct {
	FromAgentID uint   `json:"from_agent_id" binding:"required"`
	ToAgentID   string `json:"to_agent_id" binding:"required"`
	ClassType   string `json:"class_type" binding:"required"`
	BatchNumber string `json:"batch_number" binding:"required"`
}

// BulkTransferRow is one target agent with its explicit serial list
type BulkTransferRow struct {
	AgentID string   `json:"agentId"`
	Serials []string `json:"serials"`
}

// BulkTransferRequest reassigns several serial lists in one atomic batch
type BulkTransferRequest struct {
	Rows []BulkTransferRow `json:"rows" binding:"required"`
}

// UpdateFastagRequest carries the mutable tag fields
type UpdateFastagRequest struct {
	BankName          *string  `json:"bank_name"`
	FastagClass       *string  `json:"fastag_class"`
	BatchNumber       *string  `json:"batch_number"`
	PurchasePrice     *float64 `json:"purchase_price"`
	SalePrice         *float64 `json:"sale_price"`
	Status            *string  `json:"status"`
	AssignedToAgentID *uint    `json:"assigned_to_agent_id"`
}

// GetAllFastags returns the full ledger
func GetAllFastags(c *gin.Context) {
	var tags []database.FasTag
	if err := database.DB.Preload("Supplier").Preload("AssignedToAgent").
		Order("tag_serial").Find(&tags).Error; err != nil {
		log.Printf("Error fetching FASTags: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch FASTags"})
		return
	}
	c.JSON(http.StatusOK, tags)
}

// GetFastags returns tags filtered by owner and/or status
func GetFastags(c *gin.Context) {
	query := database.DB.Model(&database.FasTag{})

	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		id, err := strconv.ParseUint(assignedTo, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assigned_to parameter"})
			return
		}
		query = query.Where("assigned_to_agent_id = ?", uint(id))
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", database.NormalizeFasTagStatus(status))
	}
	if bank := c.Query("bank_name"); bank != "" {
		query = query.Where("bank_name = ?", bank)
	}
	if class := c.Query("fastag_class"); class != "" {
		query = query.Where("fastag_class = ?", class)
	}
	if batch := c.Query("batch_number"); batch != "" {
		query = query.Where("batch_number = ?", batch)
	}

	var tags []database.FasTag
	if err := query.Order("tag_serial").Find(&tags).Error; err != nil {
		log.Printf("Error fetching FASTags: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch FASTags"})
		return
	}
	c.JSON(http.StatusOK, tags)
}

// AddFastag inserts a single tag with status in_stock
func AddFastag(c *gin.Context) {
	var req AddFastagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required FASTag fields"})
		return
	}

	var count int64
	database.DB.Model(&database.FasTag{}).Where("tag_serial = ?", req.TagSerial).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Tag serial already exists"})
		return
	}

	tag := database.FasTag{
		TagSerial:     req.TagSerial,
		BankName:      req.BankName,
		FastagClass:   req.FastagClass,
		BatchNumber:   req.BatchNumber,
		SupplierID:    req.SupplierID,
		PurchasePrice: *req.PurchasePrice,
		PurchaseType:  req.PurchaseType,
		PurchaseDate:  parseDate(req.PurchaseDate),
		Status:        database.FasTagStatusInStock,
	}

	if err := database.DB.Create(&tag).Error; err != nil {
		log.Printf("Error creating FASTag: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create FASTag"})
		return
	}

	c.JSON(http.StatusCreated, tag)
}

// BulkAddFastags inserts one purchase batch atomically. Either an explicit
// serial list or a start/end range must be supplied.
func BulkAddFastags(c *gin.Context) {
	var req BulkAddFastagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required FASTag batch fields"})
		return
	}

	serials := req.Serials
	if len(serials) == 0 {
		if req.SerialStart == "" || req.SerialEnd == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Serials or a serial range is required"})
			return
		}
		if size := utils.SerialRangeSize(req.SerialStart, req.SerialEnd); size > int64(config.AppConfig.MaxSerialRange) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Serial range too large (max %d)", config.AppConfig.MaxSerialRange),
			})
			return
		}
		serials = utils.ExpandSerialRange(req.SerialStart, req.SerialEnd)
		if len(serials) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid serial range"})
			return
		}
	}

	purchaseDate := parseDate(req.PurchaseDate)
	userID := c.GetUint("userID")

	tx := database.DB.Begin()
	if tx.Error != nil {
		log.Printf("Transaction error: %v", tx.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	created := make([]database.FasTag, 0, len(serials))
	for _, serial := range serials {
		tag := database.FasTag{
			TagSerial:     serial,
			BankName:      req.BankName,
			FastagClass:   req.FastagClass,
			BatchNumber:   req.BatchNumber,
			SupplierID:    req.SupplierID,
			PurchasePrice: *req.PurchasePrice,
			PurchaseType:  req.PaymentType,
			PurchaseDate:  purchaseDate,
			Status:        database.FasTagStatusInStock,
		}
		if err := tx.Create(&tag).Error; err != nil {
			tx.Rollback()
			log.Printf("Bulk add failed on serial %s: %v", serial, err)
			c.JSON(http.StatusConflict, gin.H{"error": "Duplicate or invalid serial: " + serial})
			return
		}
		created = append(created, tag)

		audit := database.AuditLog{
			UserID:      int64(userID),
			Action:      database.AuditActionAdd,
			FasTagID:    tag.ID,
			Description: "bulk add batch " + req.BatchNumber,
		}
		if err := tx.Create(&audit).Error; err != nil {
			tx.Rollback()
			log.Printf("Audit write failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
	}

	// Commit transaction
	if err := tx.Commit().Error; err != nil {
		log.Printf("Transaction commit error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"added": len(created), "batch_number": req.BatchNumber})
}

// UpdateFastag updates mutable tag fields. Status writes go through the
// transition table, so a sold tag cannot silently come back in stock.
func UpdateFastag(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid FASTag ID"})
		return
	}

	var req UpdateFastagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	var tag database.FasTag
	if err := database.DB.First(&tag, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "FASTag not found"})
			return
		}
		log.Printf("Error fetching FASTag: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	updates := map[string]interface{}{}
	if req.BankName != nil {
		updates["bank_name"] = *req.BankName
	}
	if req.FastagClass != nil {
		updates["fastag_class"] = *req.FastagClass
	}
	if req.BatchNumber != nil {
		updates["batch_number"] = *req.BatchNumber
	}
	if req.PurchasePrice != nil {
		updates["purchase_price"] = *req.PurchasePrice
	}
	if req.SalePrice != nil {
		updates["sale_price"] = *req.SalePrice
	}
	newStatus := tag.Status
	if req.Status != nil {
		newStatus = database.NormalizeFasTagStatus(*req.Status)
		if err := database.CheckFasTagTransition(tag.Status, newStatus); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updates["status"] = newStatus
	}
	if req.AssignedToAgentID != nil {
		// An in-stock or deactivated tag must not carry an owner.
		if newStatus != database.FasTagStatusAssigned && newStatus != database.FasTagStatusSold {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Cannot set an owner on a %s FASTag", newStatus)})
			return
		}
		var agent database.User
		if err := database.DB.First(&agent, *req.AssignedToAgentID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Agent not found"})
			return
		}
		updates["assigned_to_agent_id"] = *req.AssignedToAgentID
		updates["assigned_date"] = time.Now()
	}
	if newStatus == database.FasTagStatusAssigned && tag.AssignedToAgentID == nil && req.AssignedToAgentID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An assigned FASTag requires an owner"})
		return
	}
	if req.Status != nil && newStatus == database.FasTagStatusInStock {
		updates["assigned_to_agent_id"] = nil
		updates["assigned_date"] = nil
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := database.DB.Model(&tag).Updates(updates).Error; err != nil {
		log.Printf("Error updating FASTag: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update FASTag"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AssignFastag assigns a single tag by serial to an agent
func AssignFastag(c *gin.Context) {
	var req AssignFastagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	var agent database.User
	if err := database.DB.First(&agent, req.AgentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		return
	}
	if !database.IsAgentRole(agent.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User cannot hold FASTag stock"})
		return
	}

	var tag database.FasTag
	if err := database.DB.Where("tag_serial = ?", req.TagSerial).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "FASTag not found"})
			return
		}
		log.Printf("Error fetching FASTag: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if err := database.CheckFasTagTransition(tag.Status, database.FasTagStatusAssigned); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	userID := c.GetUint("userID")
	fromAgentID := tag.AssignedToAgentID

	tx := database.DB.Begin()
	if tx.Error != nil {
		log.Printf("Transaction error: %v", tx.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if err := tx.Model(&tag).Updates(map[string]interface{}{
		"status":               database.FasTagStatusAssigned,
		"assigned_to_agent_id": req.AgentID,
		"assigned_date":        now,
	}).Error; err != nil {
		tx.Rollback()
		log.Printf("Error assigning FASTag: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign FASTag"})
		return
	}

	audit := database.AuditLog{
		UserID:      int64(userID),
		Action:      database.AuditActionAssign,
		FasTagID:    tag.ID,
		FromAgentID: fromAgentID,
		ToAgentID:   &req.AgentID,
		Description: "assign " + tag.TagSerial,
	}
	if err := tx.Create(&audit).Error; err != nil {
		tx.Rollback()
		log.Printf("Audit write failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Transaction commit error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "tag_serial": tag.TagSerial, "agent_id": req.AgentID})
}

// BulkAssignFastags assigns up to Count in-stock tags to an agent. Fewer
// tags than requested is reported, not an error.
func BulkAssignFastags(c *gin.Context) {
	var req BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	var agent database.User
	if err := database.DB.First(&agent, req.AgentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		return
	}
	if !database.IsAgentRole(agent.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User cannot hold FASTag stock"})
		return
	}

	now := time.Now()
	userID := c.GetUint("userID")

	tx := database.DB.Begin()
	if tx.Error != nil {
		log.Printf("Transaction error: %v", tx.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	var tags []database.FasTag
	if err := tx.Where("status = ?", database.FasTagStatusInStock).
		Order("tag_serial").Limit(req.Count).Find(&tags).Error; err != nil {
		tx.Rollback()
		log.Printf("Error selecting stock: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	for i := range tags {
		if err := tx.Model(&tags[i]).Updates(map[string]interface{}{
			"status":               database.FasTagStatusAssigned,
			"assigned_to_agent_id": req.AgentID,
			"assigned_date":        now,
		}).Error; err != nil {
			tx.Rollback()
			log.Printf("Error assigning FASTag %s: %v", tags[i].TagSerial, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign FASTags"})
			return
		}

		audit := database.AuditLog{
			UserID:      int64(userID),
			Action:      database.AuditActionAssign,
			FasTagID:    tags[i].ID,
			ToAgentID:   &req.AgentID,
			Description: "bulk assign " + tags[i].TagSerial,
		}
		if err := tx.Create(&audit).Error; err != nil {
			tx.Rollback()
			log.Printf("Audit write failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Transaction commit error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requested": req.Count, "assigned": len(tags)})
}

// TransferFastags moves every assigned tag matching class and batch from
// one agent to another, or back to the warehouse when to_agent_id is
// "admin".
func TransferFastags(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	toAgentID, toWarehouse, err := resolveTransferTarget(req.ToAgentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	userID := c.GetUint("userID")
	transferRef := uuid.NewString()

	tx := database.DB.Begin()
	if tx.Error != nil {
		log.Printf("Transaction error: %v", tx.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	var tags []database.FasTag
	if err := tx.Where(
		"assigned_to_agent_id = ? AND fastag_class = ? AND batch_number = ? AND status = ?",
		req.FromAgentID, req.ClassType, req.BatchNumber, database.FasTagStatusAssigned,
	).Find(&tags).Error; err != nil {
		tx.Rollback()
		log.Printf("Error selecting transfer set: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if len(tags) == 0 {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "No matching FASTags found"})
		return
	}

	if err := transferTags(tx, tags, userID, toAgentID, toWarehouse, transferRef, now); err != nil {
		tx.Rollback()
		log.Printf("Transfer failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transfer FASTags"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Transaction commit error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transferred": len(tags), "transfer_ref": transferRef})
}

// BulkTransferFastags reassigns explicit serial lists, all rows in one
// transaction: any invalid serial aborts the whole batch.
func BulkTransferFastags(c *gin.Context) {
	var req BulkTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one transfer row is required"})
		return
	}

	type resolvedRow struct {
		agentID     *uint
		toWarehouse bool
		serials     []string
	}
	rows := make([]resolvedRow, 0, len(req.Rows))
	for i, row := range req.Rows {
		if len(row.Serials) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Row %d has no serials", i+1)})
			return
		}
		agentID, toWarehouse, err := resolveTransferTarget(row.AgentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Row %d: %s", i+1, err.Error())})
			return
		}
		rows = append(rows, resolvedRow{agentID: agentID, toWarehouse: toWarehouse, serials: row.Serials})
	}

	now := time.Now()
	userID := c.GetUint("userID")
	transferRef := uuid.NewString()

	tx := database.DB.Begin()
	if tx.Error != nil {
		log.Printf("Transaction error: %v", tx.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	total := 0
	for _, row := range rows {
		var tags []database.FasTag
		if err := tx.Where("tag_serial IN ?", row.serials).Find(&tags).Error; err != nil {
			tx.Rollback()
			log.Printf("Error selecting transfer serials: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		if len(tags) != len(row.serials) {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": "One or more serials do not exist; batch aborted"})
			return
		}
		for _, tag := range tags {
			if tag.Status != database.FasTagStatusAssigned {
				tx.Rollback()
				c.JSON(http.StatusBadRequest, gin.H{
					"error": fmt.Sprintf("Serial %s is not assigned; batch aborted", tag.TagSerial),
				})
				return
			}
		}
		if err := transferTags(tx, tags, userID, row.agentID, row.toWarehouse, transferRef, now); err != nil {
			tx.Rollback()
			log.Printf("Bulk transfer failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transfer FASTags"})
			return
		}
		total += len(tags)
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Transaction commit error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transferred": total, "transfer_ref": transferRef})
}

// GetFastagQRCode returns a PNG QR code encoding the tag serial
func GetFastagQRCode(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid FASTag ID"})
		return
	}

	var tag database.FasTag
	if err := database.DB.First(&tag, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "FASTag not found"})
		return
	}

	png, err := qrcode.Encode(tag.TagSerial, qrcode.Medium, 256)
	if err != nil {
		log.Printf("QR encode failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// resolveTransferTarget parses a transfer target: a numeric agent id or the
// literal "admin" for return-to-warehouse
func resolveTransferTarget(raw string) (*uint, bool, error) {
	if strings.EqualFold(raw, "admin") {
		return nil, true, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, false, errors.New("agent id must be numeric or 'admin'")
	}
	agentID := uint(id)
	var agent database.User
	if err := database.DB.First(&agent, agentID).Error; err != nil {
		return nil, false, errors.New("target agent not found")
	}
	if !database.IsAgentRole(agent.Role) {
		return nil, false, errors.New("target user cannot hold FASTag stock")
	}
	return &agentID, false, nil
}

// transferTags applies one transfer row inside tx and writes its audit
// entries. Warehouse returns clear ownership and go back to in_stock.
func transferTags(tx *gorm.DB, tags []database.FasTag, userID uint, toAgentID *uint, toWarehouse bool, transferRef string, now time.Time) error {
	for i := range tags {
		tag := &tags[i]
		fromAgentID := tag.AssignedToAgentID

		updates := map[string]interface{}{}
		action := database.AuditActionTransfer
		if toWarehouse {
			updates["status"] = database.FasTagStatusInStock
			updates["assigned_to_agent_id"] = nil
			updates["assigned_date"] = nil
			action = database.AuditActionReturn
		} else {
			updates["status"] = database.FasTagStatusAssigned
			updates["assigned_to_agent_id"] = *toAgentID
			updates["assigned_date"] = now
		}

		if err := tx.Model(tag).Updates(updates).Error; err != nil {
			return err
		}

		audit := database.AuditLog{
			UserID:      int64(userID),
			Action:      action,
			FasTagID:    tag.ID,
			FromAgentID: fromAgentID,
			ToAgentID:   toAgentID,
			TransferRef: transferRef,
			Description: "transfer " + tag.TagSerial,
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}
	}
	return nil
}

// parseDate accepts YYYY-MM-DD, returns nil on anything else
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
