package main

import (
	"log"
	"net/http"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/config"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/db"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/handlers"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/middleware"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/services"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment, cfg.TursoDatabaseURL, cfg.TursoAuthToken); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Engagement{},
		&models.Case{},
		&models.Document{},
		&models.ComplianceItem{},
		&models.TimeEntry{},
		&models.Invoice{},
		&models.InvoiceSequence{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize document storage
	services.InitializeStorage(cfg)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Printf("%s %s -> %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))
	e.Use(middleware.Metrics())

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.ContextKeyConfig, cfg)
			return next(c)
		}
	})

	// Operational endpoints
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", middleware.MetricsHandler())

	// Public routes (no authentication required)
	e.POST("/api/auth/register", handlers.Register)
	e.POST("/api/auth/login", handlers.Login)

	// Protected routes
	api := e.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.GET("/me", handlers.GetMe)

		// Users
		api.GET("/users", handlers.GetUsers)
		api.GET("/users/:id", handlers.GetUser)
		api.PATCH("/users/:id", handlers.UpdateUser)

		// Customers
		api.GET("/customers", handlers.GetCustomers)
		api.GET("/customers/:id", handlers.GetCustomer)
		api.POST("/customers", handlers.CreateCustomer)
		api.PATCH("/customers/:id", handlers.UpdateCustomer)
		api.DELETE("/customers/:id", handlers.DeleteCustomer)

		// Cases
		api.GET("/cases", handlers.GetCases)
		api.GET("/cases/:id", handlers.GetCase)
		api.GET("/cases/attorney/:userId", handlers.GetCasesByAttorney)
		api.POST("/cases", handlers.CreateCase)
		api.PATCH("/cases/:id", handlers.UpdateCase)
		api.DELETE("/cases/:id", handlers.DeleteCase)

		// Engagements
		api.GET("/engagements", handlers.GetEngagements)
		api.GET("/engagements/:id", handlers.GetEngagement)
		api.GET("/engagements/client/:clientId", handlers.GetEngagementsByClient)
		api.POST("/engagements", handlers.CreateEngagement)
		api.PATCH("/engagements/:id", handlers.UpdateEngagement)
		api.DELETE("/engagements/:id", handlers.DeleteEngagement)

		// Documents
		api.GET("/documents", handlers.GetDocuments)
		api.GET("/documents/:id", handlers.GetDocument)
		api.GET("/documents/:id/download", handlers.DownloadDocument)
		api.POST("/documents", handlers.CreateDocument)
		api.PATCH("/documents/:id", handlers.UpdateDocument)
		api.DELETE("/documents/:id", handlers.DeleteDocument)

		// Compliance
		api.GET("/compliance", handlers.GetComplianceItems)
		api.GET("/compliance/:id", handlers.GetComplianceItem)
		api.GET("/compliance/case/:caseId", handlers.GetComplianceByCase)
		api.POST("/compliance", handlers.CreateComplianceItem)
		api.PATCH("/compliance/:id", handlers.UpdateComplianceItem)
		api.DELETE("/compliance/:id", handlers.DeleteComplianceItem)

		// Time entries
		api.GET("/time-entries", handlers.GetTimeEntries)
		api.GET("/time-entries/unbilled", handlers.GetUnbilledTimeEntries)
		api.GET("/time-entries/case/:caseId", handlers.GetTimeEntriesByCase)
		api.GET("/time-entries/:id", handlers.GetTimeEntry)
		api.POST("/time-entries", handlers.CreateTimeEntry)
		api.PATCH("/time-entries/:id", handlers.UpdateTimeEntry)
		api.DELETE("/time-entries/:id", handlers.DeleteTimeEntry)

		// Invoices
		api.GET("/invoices", handlers.GetInvoices)
		api.GET("/invoices/:id", handlers.GetInvoice)
		api.POST("/invoices", handlers.CreateInvoice)
		api.PATCH("/invoices/:id", handlers.UpdateInvoice)
		api.DELETE("/invoices/:id", handlers.DeleteInvoice)

		// Analytics
		api.GET("/analytics/cases", handlers.GetCaseAnalytics)
		api.GET("/analytics/dashboard", handlers.GetDashboardAnalytics)

		// Reports
		api.GET("/reports/export", handlers.ExportReport)

		// Audit trail (admin and legal manager only)
		auditRoutes := api.Group("/audit-logs")
		auditRoutes.Use(middleware.RequireRole(models.RoleAdmin, models.RoleLegalManager))
		{
			auditRoutes.GET("", handlers.GetAuditLogs)
			auditRoutes.GET("/:entityType/:entityId", handlers.GetEntityAuditHistory)
		}

		// Admin-only routes
		adminRoutes := api.Group("")
		adminRoutes.Use(middleware.RequireRole(models.RoleAdmin))
		{
			adminRoutes.DELETE("/users/:id", handlers.DeleteUser)
		}
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
