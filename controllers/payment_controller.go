package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	razorpay "github.com/razorpay/razorpay-go"
	"gorm.io/gorm"

	"nh360fastag/config"
	"nh360fastag/database"
)

// SaleOrderRequest creates a Razorpay order for buying a FASTag
type SaleOrderRequest struct {
	TagSerial string  `json:"tag_serial" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

// SaleVerificationRequest confirms a Razorpay payment for a tag sale
type SaleVerificationRequest struct {
	PaymentID string `json:"payment_id" binding:"required"`
	OrderID   string `json:"order_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
	TagSerial string `json:"tag_serial" binding:"required"`
}

// GenerateSaleOrder creates a Razorpay order for an assigned tag. The tag
// is only marked sold once the payment is verified.
func GenerateSaleOrder(c *gin.Context) {
	var req SaleOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	var tag database.FasTag
	result := database.DB.Where("tag_serial = ?", req.TagSerial).First(&tag)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "FASTag not found"})
			return
		}
		log.Printf("Database error: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if tag.Status != database.FasTagStatusAssigned {
		c.JSON(http.StatusBadRequest, gin.H{"error": "FASTag is not available for sale"})
		return
	}

	client := razorpay.NewClient(config.AppConfig.RazorpayKey, config.AppConfig.RazorpaySecret)

	data := map[string]interface{}{
		"amount":   int(req.Amount * 100), // amount in paise
		"currency": "INR",
		"receipt":  "tag_" + tag.TagSerial,
	}

	razorpayOrder, err := client.Order.Create(data, nil)
	if err != nil {
		log.Printf("Razorpay order creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment order"})
		return
	}

	userID := c.GetUint("userID")
	paymentDetails := fmt.Sprintf(`{"razorpay_order_id": "%s"}`, razorpayOrder["id"])

	payment := database.Payment{
		CustomerID:     userID,
		FasTagID:       tag.ID,
		Amount:         req.Amount,
		Status:         database.PaymentStatusPending,
		PaymentMethod:  "razorpay",
		TransactionID:  fmt.Sprintf("%v", razorpayOrder["id"]),
		PaymentDetails: paymentDetails,
	}
	if err := database.DB.Create(&payment).Error; err != nil {
		log.Printf("Error recording payment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"razorpay_order_id": razorpayOrder["id"],
		"amount":            req.Amount,
		"currency":          "INR",
		"key":               config.AppConfig.RazorpayKey,
	})
}

// VerifySalePayment checks the Razorpay signature and, on success, marks
// the tag sold with its sale price in one transaction
func VerifySalePayment(c *gin.Context) {
	var req SaleVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	// Verify HMAC signature: sha256(order_id|payment_id, secret)
	payload := req.OrderID + "|" + req.PaymentID
	mac := hmac.New(sha256.New, []byte(config.AppConfig.RazorpaySecret))
	mac.Write([]byte(payload))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(req.Signature)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment signature"})
		return
	}

	var payment database.Payment
	if err := database.DB.Where("transaction_id = ?", req.OrderID).First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment order not found"})
		return
	}

	var tag database.FasTag
	if err := database.DB.Where("tag_serial = ?", req.TagSerial).First(&tag).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "FASTag not found"})
		return
	}

	if err := database.CheckFasTagTransition(tag.Status, database.FasTagStatusSold); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("userID")

	tx := database.DB.Begin()
	if tx.Error != nil {
		log.Printf("Transaction error: %v", tx.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	paymentDetails := fmt.Sprintf(`{"razorpay_order_id": "%s", "razorpay_payment_id": "%s"}`, req.OrderID, req.PaymentID)
	if err := tx.Model(&payment).Updates(map[string]interface{}{
		"status":          database.PaymentStatusPaid,
		"payment_details": paymentDetails,
	}).Error; err != nil {
		tx.Rollback()
		log.Printf("Error updating payment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
		return
	}

	if err := tx.Model(&tag).Updates(map[string]interface{}{
		"status":              database.FasTagStatusSold,
		"sale_price":          payment.Amount,
		"sold_to_customer_id": payment.CustomerID,
	}).Error; err != nil {
		tx.Rollback()
		log.Printf("Error marking tag sold: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete sale"})
		return
	}

	audit := database.AuditLog{
		UserID:      int64(userID),
		Action:      database.AuditActionSale,
		FasTagID:    tag.ID,
		FromAgentID: tag.AssignedToAgentID,
		Description: "sale " + tag.TagSerial,
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

	c.JSON(http.StatusOK, gin.H{"success": true, "tag_serial": tag.TagSerial})
}

// GetPaymentHistory lists recorded payments, newest first
func GetPaymentHistory(c *gin.Context) {
	var payments []database.Payment
	if err := database.DB.Preload("FasTag").Order("created_at DESC").Find(&payments).Error; err != nil {
		log.Printf("Error fetching payments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

// GetMyPayments lists the calling customer's own payments, newest first
func GetMyPayments(c *gin.Context) {
	userID := c.GetUint("userID")

	var payments []database.Payment
	if err := database.DB.Preload("FasTag").Where("customer_id = ?", userID).Order("created_at DESC").Find(&payments).Error; err != nil {
		log.Printf("Error fetching payments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}
