package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nh360fastag/database"
)

// TicketRequest contains the data for ticket creation
type TicketRequest struct {
	Subject       string `json:"subject" binding:"required"`
	Description   string `json:"description"`
	Priority      string `json:"priority"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	VehicleNumber string `json:"vehicle_number"`
	AssignedToID  *uint  `json:"assigned_to_id"`
}

// SubTicketRequest creates a child ticket; customer fields come from the
// parent
type SubTicketRequest struct {
	Subject      string `json:"subject" binding:"required"`
	Description  string `json:"description"`
	Priority     string `json:"priority"`
	AssignedToID *uint  `json:"assigned_to_id"`
}

// TicketUpdateRequest carries the mutable ticket fields
type TicketUpdateRequest struct {
	Subject      *string `json:"subject"`
	Description  *string `json:"description"`
	Status       *string `json:"status"`
	Priority     *string `json:"priority"`
	AssignedToID *uint   `json:"assigned_to_id"`
}

// nextTicketNo allocates the next daily-sequential ticket number
// (NH360-YYYYMMDD-###) inside tx, so two same-day creates cannot collide.
func nextTicketNo(tx *gorm.DB, now time.Time) (string, error) {
	day := now.Format("20060102")

	var count int64
	if err := tx.Model(&database.Ticket{}).
		Where("ticket_no LIKE ?", "NH360-"+day+"-%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("NH360-%s-%03d", day, count+1), nil
}

// CreateTicket opens a new ticket with a daily-sequential number
func CreateTicket(c *gin.Context) {
	var req TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	if req.AssignedToID != nil {
		var assignee database.User
		if err := database.DB.First(&assignee, *req.AssignedToID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Assignee not found"})
			return
		}
	}

	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}

	var ticket database.Ticket
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		ticketNo, err := nextTicketNo(tx, time.Now())
		if err != nil {
			return err
		}

		ticket = database.Ticket{
			TicketNo:      ticketNo,
			Subject:       req.Subject,
			Description:   req.Description,
			Status:        database.TicketStatusOpen,
			Priority:      priority,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			VehicleNumber: req.VehicleNumber,
			AssignedToID:  req.AssignedToID,
		}
		return tx.Create(&ticket).Error
	})
	if err != nil {
		log.Printf("Error creating ticket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ticket"})
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// CreateSubTicket opens a child ticket inheriting the parent's customer
// fields
func CreateSubTicket(c *gin.Context) {
	parentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	var req SubTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	var parent database.Ticket
	if err := database.DB.First(&parent, uint(parentID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Parent ticket not found"})
			return
		}
		log.Printf("Error fetching parent ticket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = parent.Priority
	}

	var ticket database.Ticket
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		ticketNo, err := nextTicketNo(tx, time.Now())
		if err != nil {
			return err
		}

		parentRef := parent.ID
		ticket = database.Ticket{
			TicketNo:       ticketNo,
			Subject:        req.Subject,
			Description:    req.Description,
			Status:         database.TicketStatusOpen,
			Priority:       priority,
			CustomerName:   parent.CustomerName,
			CustomerPhone:  parent.CustomerPhone,
			VehicleNumber:  parent.VehicleNumber,
			AssignedToID:   req.AssignedToID,
			ParentTicketID: &parentRef,
		}
		return tx.Create(&ticket).Error
	})
	if err != nil {
		log.Printf("Error creating sub-ticket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sub-ticket"})
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// GetTickets lists tickets, optionally filtered by status or assignee
func GetTickets(c *gin.Context) {
	query := database.DB.Preload("AssignedTo").Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		id, err := strconv.ParseUint(assignedTo, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assigned_to parameter"})
			return
		}
		query = query.Where("assigned_to_id = ?", uint(id))
	}

	var tickets []database.Ticket
	if err := query.Find(&tickets).Error; err != nil {
		log.Printf("Error fetching tickets: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tickets"})
		return
	}
	for i := range tickets {
		if tickets[i].AssignedTo != nil {
			tickets[i].AssignedTo.PasswordHash = ""
		}
	}
	c.JSON(http.StatusOK, tickets)
}

// GetTicketByID returns one ticket with its sub-tickets
func GetTicketByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	var ticket database.Ticket
	if err := database.DB.Preload("AssignedTo").First(&ticket, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
			return
		}
		log.Printf("Error fetching ticket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if ticket.AssignedTo != nil {
		ticket.AssignedTo.PasswordHash = ""
	}

	var subTickets []database.Ticket
	if err := database.DB.Where("parent_ticket_id = ?", ticket.ID).
		Order("created_at").Find(&subTickets).Error; err != nil {
		log.Printf("Error fetching sub-tickets: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": ticket, "sub_tickets": subTickets})
}

// UpdateTicket updates mutable ticket fields
func UpdateTicket(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	var ticket database.Ticket
	if err := database.DB.First(&ticket, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	var req TicketUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	updates := map[string]interface{}{}
	if req.Subject != nil {
		updates["subject"] = *req.Subject
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		switch *req.Status {
		case database.TicketStatusOpen, database.TicketStatusInProgress,
			database.TicketStatusResolved, database.TicketStatusClosed:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown ticket status"})
			return
		}
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.AssignedToID != nil {
		var assignee database.User
		if err := database.DB.First(&assignee, *req.AssignedToID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Assignee not found"})
			return
		}
		updates["assigned_to_id"] = *req.AssignedToID
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := database.DB.Model(&ticket).Updates(updates).Error; err != nil {
		log.Printf("Error updating ticket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ticket"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
