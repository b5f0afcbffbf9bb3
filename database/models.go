package database

import (
	"time"

	"gorm.io/gorm"
)

// User represents any party in the distribution chain: admin, area sales
// manager, team lead, shop, agent, toll agent, executive, employee or end
// customer. Agents form a tree through ParentUserID.
type User struct {
	gorm.Model
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"uniqueIndex"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	Phone        string `json:"phone" gorm:"index"`
	Pincode      string `json:"pincode"`
	Area         string `json:"area"` // required for role=asm
	ParentUserID *uint  `json:"parent_user_id"`
	Parent       *User  `gorm:"foreignKey:ParentUserID" json:"parent,omitempty"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// Supplier is an upstream source of FASTag stock
type Supplier struct {
	gorm.Model
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Status        string `json:"status"`
}

// FasTag represents a physical RFID tag unit tracked through purchase,
// assignment and sale
type FasTag struct {
	gorm.Model
	TagSerial         string     `json:"tag_serial" gorm:"uniqueIndex"`
	BankName          string     `json:"bank_name" gorm:"index"`
	FastagClass       string     `json:"fastag_class" gorm:"index"`
	BatchNumber       string     `json:"batch_number" gorm:"index"`
	SupplierID        *uint      `json:"supplier_id" gorm:"index"`
	PurchasePrice     float64    `json:"purchase_price"`
	PurchaseType      string     `json:"purchase_type"` // paid or credit
	PurchaseDate      *time.Time `json:"purchase_date"`
	Status            string     `json:"status" gorm:"index"`
	AssignedToAgentID *uint      `json:"assigned_to_agent_id" gorm:"index"`
	AssignedDate      *time.Time `json:"assigned_date"`
	SalePrice         *float64   `json:"sale_price"`
	SoldToCustomerID  *uint      `json:"sold_to_customer_id"`
	Supplier          *Supplier  `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	AssignedToAgent   *User      `gorm:"foreignKey:AssignedToAgentID" json:"assigned_to_agent,omitempty"`
}

// Ticket represents a customer-service case. Sub-tickets reference their
// parent through ParentTicketID and inherit its customer fields.
type Ticket struct {
	gorm.Model
	TicketNo       string  `json:"ticket_no" gorm:"uniqueIndex"`
	Subject        string  `json:"subject"`
	Description    string  `json:"description"`
	Status         string  `json:"status"`
	Priority       string  `json:"priority"`
	CustomerName   string  `json:"customer_name"`
	CustomerPhone  string  `json:"customer_phone"`
	VehicleNumber  string  `json:"vehicle_number"`
	AssignedToID   *uint   `json:"assigned_to_id"`
	ParentTicketID *uint   `json:"parent_ticket_id"`
	AssignedTo     *User   `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	ParentTicket   *Ticket `gorm:"foreignKey:ParentTicketID" json:"parent_ticket,omitempty"`
}

// Payment represents a tag-sale payment made through Razorpay
type Payment struct {
	gorm.Model
	CustomerID     uint    `json:"customer_id"`
	FasTagID       uint    `json:"fastag_id"`
	Amount         float64 `json:"amount"`
	Status         string  `json:"status"`
	PaymentMethod  string  `json:"payment_method"`
	TransactionID  string  `json:"transaction_id"`
	PaymentDetails string  `json:"payment_details"`
	Customer       User    `gorm:"foreignKey:CustomerID" json:"customer"`
	FasTag         FasTag  `gorm:"foreignKey:FasTagID" json:"fastag"`
}

// AuditLog records every ownership mutation on the FASTag ledger. Transfer
// batches share a TransferRef so a bulk operation can be traced as one unit.
type AuditLog struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64     `gorm:"index" json:"user_id"`
	Action      string    `gorm:"size:50;not null" json:"action"`
	FasTagID    uint      `gorm:"index;not null" json:"fastag_id"`
	FromAgentID *uint     `json:"from_agent_id"`
	ToAgentID   *uint     `json:"to_agent_id"`
	TransferRef string    `gorm:"size:64;index" json:"transfer_ref"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Constants for status values
const (
	// FASTag lifecycle. "in_stock" is the canonical unassigned status;
	// older imports sometimes carried "available", which is normalized on
	// the way in.
	FasTagStatusInStock     = "in_stock"
	FasTagStatusAssigned    = "assigned"
	FasTagStatusSold        = "sold"
	FasTagStatusDeactivated = "deactivated"

	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"

	UserStatusActive   = "active"
	UserStatusInactive = "inactive"

	// User roles
	RoleAdmin     = "admin"
	RoleASM       = "asm"
	RoleTeamLead  = "team-lead"
	RoleShop      = "shop"
	RoleAgent     = "agent"
	RoleTollAgent = "toll-agent"
	RoleExecutive = "executive"
	RoleEmployee  = "employee"
	RoleCustomer  = "customer"

	// Audit actions
	AuditActionAdd      = "add"
	AuditActionAssign   = "assign"
	AuditActionTransfer = "transfer"
	AuditActionReturn   = "return"
	AuditActionSale     = "sale"
	AuditActionUpdate   = "update"
)

// AgentRoles lists the roles that can hold FASTag stock
var AgentRoles = []string{RoleASM, RoleTeamLead, RoleShop, RoleAgent, RoleTollAgent, RoleExecutive}

// IsAgentRole reports whether role can appear in the agent hierarchy
func IsAgentRole(role string) bool {
	for _, r := range AgentRoles {
		if r == role {
			return true
		}
	}
	return false
}
