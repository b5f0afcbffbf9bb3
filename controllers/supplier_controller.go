package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nh360fastag/database"
)

// SupplierRequest contains the data for supplier create/update
type SupplierRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone" binding:"required"`
	Address       string `json:"address"`
	Status        string `json:"status"`
}

// SupplierResponse is a supplier with its derived payment status
type SupplierResponse struct {
	database.Supplier
	PaymentStatus string `json:"payment_status"`
}

// supplierPaymentStatus derives paid/credit/mixed/N/A from the purchase
// types of the supplier's tags
func supplierPaymentStatus(supplierID uint) string {
	var paid, credit int64
	database.DB.Model(&database.FasTag{}).
		Where("supplier_id = ? AND purchase_type = ?", supplierID, "paid").Count(&paid)
	database.DB.Model(&database.FasTag{}).
		Where("supplier_id = ? AND purchase_type = ?", supplierID, "credit").Count(&credit)

	switch {
	case paid > 0 && credit > 0:
		return "mixed"
	case paid > 0:
		return "paid"
	case credit > 0:
		return "credit"
	}
	return "N/A"
}

// GetSuppliers returns all suppliers with derived payment status
func GetSuppliers(c *gin.Context) {
	var suppliers []database.Supplier
	if err := database.DB.Order("name").Find(&suppliers).Error; err != nil {
		log.Printf("Error fetching suppliers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch suppliers"})
		return
	}

	resp := make([]SupplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		resp = append(resp, SupplierResponse{Supplier: s, PaymentStatus: supplierPaymentStatus(s.ID)})
	}
	c.JSON(http.StatusOK, resp)
}

// GetSupplierByID returns one supplier
func GetSupplierByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	var supplier database.Supplier
	if err := database.DB.First(&supplier, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		}
		log.Printf("Error fetching supplier: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, SupplierResponse{Supplier: supplier, PaymentStatus: supplierPaymentStatus(supplier.ID)})
}

// CreateSupplier adds a supplier
func CreateSupplier(c *gin.Context) {
	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	status := req.Status
	if status == "" {
		status = "active"
	}

	supplier := database.Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Status:        status,
	}

	if err := database.DB.Create(&supplier).Error; err != nil {
		log.Printf("Error creating supplier: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create supplier"})
		return
	}

	c.JSON(http.StatusCreated, supplier)
}

// UpdateSupplier updates supplier fields
func UpdateSupplier(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	var supplier database.Supplier
	if err := database.DB.First(&supplier, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		return
	}

	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	updates := map[string]interface{}{
		"name":           req.Name,
		"contact_person": req.ContactPerson,
		"email":          req.Email,
		"phone":          req.Phone,
		"address":        req.Address,
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	if err := database.DB.Model(&supplier).Updates(updates).Error; err != nil {
		log.Printf("Error updating supplier: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update supplier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteSupplier removes a supplier and its unassigned stock in one
// transaction. Assigned or sold tags block the delete.
func DeleteSupplier(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	var supplier database.Supplier
	if err := database.DB.First(&supplier, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		return
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		log.Printf("Transaction error: %v", tx.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	var inCirculation int64
	if err := tx.Model(&database.FasTag{}).
		Where("supplier_id = ? AND status NOT IN ?", supplier.ID,
			[]string{database.FasTagStatusInStock, database.FasTagStatusDeactivated}).
		Count(&inCirculation).Error; err != nil {
		tx.Rollback()
		log.Printf("Error checking supplier stock: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if inCirculation > 0 {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Supplier has FASTags in circulation"})
		return
	}

	if err := tx.Where("supplier_id = ?", supplier.ID).Delete(&database.FasTag{}).Error; err != nil {
		tx.Rollback()
		log.Printf("Error deleting supplier stock: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete supplier stock"})
		return
	}

	if err := tx.Delete(&supplier).Error; err != nil {
		tx.Rollback()
		log.Printf("Error deleting supplier: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete supplier"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Transaction commit error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
