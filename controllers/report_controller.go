package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"nh360fastag/database"
	"nh360fastag/utils"
)

// AvailableSummaryRow groups in-stock tags by bank, class and serial prefix
type AvailableSummaryRow struct {
	BankName     string `json:"bank_name"`
	FastagClass  string `json:"fastag_class"`
	SerialPrefix string `json:"serial_prefix"`
	Count        int64  `json:"count"`
	FirstSerial  string `json:"first_serial"`
	LastSerial   string `json:"last_serial"`
}

// GetAvailableSummary summarizes warehouse stock by bank, class and serial
// prefix. Result order follows the ledger's serial order, so repeated calls
// with no intervening mutation return identical rows.
func GetAvailableSummary(c *gin.Context) {
	var tags []database.FasTag
	if err := database.DB.
		Where("status = ?", database.FasTagStatusInStock).
		Order("tag_serial").Find(&tags).Error; err != nil {
		log.Printf("Error fetching stock: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stock"})
		return
	}

	type key struct{ bank, class, prefix string }
	index := map[key]int{}
	rows := []AvailableSummaryRow{}

	for _, tag := range tags {
		prefix, _, ok := utils.SplitSerial(tag.TagSerial)
		if !ok {
			prefix = tag.TagSerial
		}
		k := key{tag.BankName, tag.FastagClass, prefix}
		if i, seen := index[k]; seen {
			rows[i].Count++
			rows[i].LastSerial = tag.TagSerial
			continue
		}
		index[k] = len(rows)
		rows = append(rows, AvailableSummaryRow{
			BankName:     tag.BankName,
			FastagClass:  tag.FastagClass,
			SerialPrefix: prefix,
			Count:        1,
			FirstSerial:  tag.TagSerial,
			LastSerial:   tag.TagSerial,
		})
	}

	c.JSON(http.StatusOK, rows)
}

// SupplierSummaryRow is one supplier's ledger totals
type SupplierSummaryRow struct {
	SupplierID uint   `json:"supplier_id"`
	Name       string `json:"name"`
	Total      int64  `json:"total"`
	Available  int64  `json:"available"`
	Assigned   int64  `json:"assigned"`
	Sold       int64  `json:"sold"`
	Paid       int64  `json:"paid"`
	Credit     int64  `json:"credit"`
}

// GetSupplierSummary returns per-supplier tag totals with the paid/credit
// split, computed with one grouped query on the raw connection
func GetSupplierSummary(c *gin.Context) {
	rows, err := database.LegacyDB.Query(`
		SELECT s.id, s.name,
			COUNT(f.id),
			COALESCE(SUM(CASE WHEN f.status = 'in_stock' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN f.status = 'assigned' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN f.status = 'sold' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN f.purchase_type = 'paid' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN f.purchase_type = 'credit' THEN 1 ELSE 0 END), 0)
		FROM suppliers s
		LEFT JOIN fas_tags f ON f.supplier_id = s.id AND f.deleted_at IS NULL
		WHERE s.deleted_at IS NULL
		GROUP BY s.id, s.name
		ORDER BY s.name`)
	if err != nil {
		log.Printf("Supplier summary query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute supplier summary"})
		return
	}
	defer rows.Close()

	summary := []SupplierSummaryRow{}
	for rows.Next() {
		var r SupplierSummaryRow
		if err := rows.Scan(&r.SupplierID, &r.Name, &r.Total, &r.Available, &r.Assigned, &r.Sold, &r.Paid, &r.Credit); err != nil {
			log.Printf("Supplier summary scan failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute supplier summary"})
			return
		}
		summary = append(summary, r)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Supplier summary rows error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute supplier summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetAgentDetails returns one agent's own tallies. Reassigned counts the
// audited transfer events that moved stock to this agent.
func GetAgentDetails(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid agent ID"})
		return
	}

	var agent database.User
	if err := database.DB.First(&agent, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		return
	}
	agent.PasswordHash = ""

	var total, assigned, sold, reassigned int64
	database.DB.Model(&database.FasTag{}).
		Where("assigned_to_agent_id = ?", agent.ID).Count(&total)
	database.DB.Model(&database.FasTag{}).
		Where("assigned_to_agent_id = ? AND status = ?", agent.ID, database.FasTagStatusAssigned).Count(&assigned)
	database.DB.Model(&database.FasTag{}).
		Where("assigned_to_agent_id = ? AND status = ?", agent.ID, database.FasTagStatusSold).Count(&sold)
	database.DB.Model(&database.AuditLog{}).
		Where("to_agent_id = ? AND action = ?", agent.ID, database.AuditActionTransfer).Count(&reassigned)

	c.JSON(http.StatusOK, gin.H{
		"agent":      agent,
		"total":      total,
		"assigned":   assigned,
		"sold":       sold,
		"reassigned": reassigned,
	})
}

// ExportFastagsExcel streams the full ledger as an .xlsx workbook
func ExportFastagsExcel(c *gin.Context) {
	var tags []database.FasTag
	if err := database.DB.Preload("Supplier").Preload("AssignedToAgent").
		Order("tag_serial").Find(&tags).Error; err != nil {
		log.Printf("Error fetching FASTags: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch FASTags"})
		return
	}

	f := excelize.NewFile()
	sheetName := "FASTags"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		log.Printf("Excel sheet error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"Tag Serial", "Bank", "Class", "Batch", "Supplier", "Purchase Price", "Purchase Type", "Status", "Assigned To", "Assigned Date", "Sale Price"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	rowIndex := 2
	for _, tag := range tags {
		supplierName := ""
		if tag.Supplier != nil {
			supplierName = tag.Supplier.Name
		}
		agentName := ""
		if tag.AssignedToAgent != nil {
			agentName = tag.AssignedToAgent.Name
		}
		assignedDate := ""
		if tag.AssignedDate != nil {
			assignedDate = tag.AssignedDate.Format("2006-01-02")
		}
		salePrice := ""
		if tag.SalePrice != nil {
			salePrice = fmt.Sprintf("%.2f", *tag.SalePrice)
		}

		values := []interface{}{
			tag.TagSerial, tag.BankName, tag.FastagClass, tag.BatchNumber,
			supplierName, tag.PurchasePrice, tag.PurchaseType, tag.Status,
			agentName, assignedDate, salePrice,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, rowIndex)
			f.SetCellValue(sheetName, cell, v)
		}
		rowIndex++
	}

	fileName := fmt.Sprintf("fastags-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		log.Printf("Excel write error: %v", err)
	}
}
