package routes

import (
	"github.com/gin-gonic/gin"

	"nh360fastag/controllers"
	"nh360fastag/middleware"
)

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine) {
	// Public routes (no authentication required)
	public := r.Group("/api")
	{
		// Authentication routes
		auth := public.Group("/auth")
		{
			auth.POST("/login", controllers.Login)
			auth.POST("/register", controllers.Register)
		}
	}

	// Protected routes (authentication required)
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/auth/refresh", controllers.RefreshToken)

		protected.GET("/profile", controllers.GetUserProfile)
		protected.PUT("/profile", controllers.UpdateUserProfile)
		protected.POST("/profile/change-password", controllers.ChangePassword)

		// FASTag inventory ledger
		fastags := protected.Group("/fastags")
		{
			fastags.GET("/all", middleware.AgentAuthMiddleware(), controllers.GetAllFastags)
			fastags.GET("", middleware.AgentAuthMiddleware(), controllers.GetFastags)
			fastags.POST("/add-item", middleware.AdminAuthMiddleware(), controllers.AddFastag)
			fastags.POST("/bulk-add", middleware.AdminAuthMiddleware(), controllers.BulkAddFastags)
			fastags.PUT("/:id", middleware.AdminAuthMiddleware(), controllers.UpdateFastag)
			fastags.POST("/assign-one", middleware.AdminAuthMiddleware(), controllers.AssignFastag)
			fastags.POST("/assign", middleware.AdminAuthMiddleware(), controllers.BulkAssignFastags)
			fastags.POST("/transfer", middleware.AdminAuthMiddleware(), controllers.TransferFastags)
			fastags.POST("/bulk-transfer", middleware.AdminAuthMiddleware(), controllers.BulkTransferFastags)
			fastags.GET("/:id/qrcode", middleware.AgentAuthMiddleware(), controllers.GetFastagQRCode)
		}

		// Agent hierarchy
		agents := protected.Group("/agents")
		{
			agents.GET("/all", middleware.AdminOrEmployeeAuthMiddleware(), controllers.GetAgents)
			agents.GET("/hierarchy", middleware.AdminAuthMiddleware(), controllers.GetAgentForest)
			agents.GET("/:id/hierarchy", middleware.AgentAuthMiddleware(), controllers.GetAgentHierarchy)
			agents.GET("/:id/details", middleware.AgentAuthMiddleware(), controllers.GetAgentDetails)
			agents.PATCH("/:id/status", middleware.AdminAuthMiddleware(), controllers.UpdateAgentStatus)
		}

		// Suppliers
		suppliers := protected.Group("/suppliers")
		suppliers.Use(middleware.AdminOrEmployeeAuthMiddleware())
		{
			suppliers.GET("", controllers.GetSuppliers)
			suppliers.GET("/:id", controllers.GetSupplierByID)
			suppliers.POST("", controllers.CreateSupplier)
			suppliers.PUT("/:id", controllers.UpdateSupplier)
			suppliers.DELETE("/:id", controllers.DeleteSupplier)
		}

		// Tickets
		tickets := protected.Group("/tickets")
		{
			tickets.GET("", controllers.GetTickets)
			tickets.GET("/:id", controllers.GetTicketByID)
			tickets.POST("", controllers.CreateTicket)
			tickets.POST("/:id/sub-tickets", controllers.CreateSubTicket)
			tickets.PUT("/:id", controllers.UpdateTicket)
		}

		// Reports
		reports := protected.Group("/reports")
		{
			reports.GET("/available-summary", middleware.AgentAuthMiddleware(), controllers.GetAvailableSummary)
			reports.GET("/supplier-summary", middleware.AdminOrEmployeeAuthMiddleware(), controllers.GetSupplierSummary)
			reports.GET("/fastags/export", middleware.AdminOrEmployeeAuthMiddleware(), controllers.ExportFastagsExcel)
		}

		// Payments
		payments := protected.Group("/payments")
		{
			payments.POST("/generate-order", middleware.AgentAuthMiddleware(), controllers.GenerateSaleOrder)
			payments.POST("/verify", middleware.AgentAuthMiddleware(), controllers.VerifySalePayment)
			payments.GET("", middleware.AdminAuthMiddleware(), controllers.GetPaymentHistory)
			payments.GET("/mine", middleware.CustomerAuthMiddleware(), controllers.GetMyPayments)
		}
	}
}
