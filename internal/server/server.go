// Package server assembles the services, handlers and routes of the API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"spendwise/internal/config"
	"spendwise/internal/events"
	"spendwise/internal/handlers"
	"spendwise/internal/middleware"
	"spendwise/internal/services"

	_ "spendwise/internal/docs" // registers the swagger document
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Admin        *handlers.AdminHandler
	Category     *handlers.CategoryHandler
	Budget       *handlers.BudgetHandler
	Transaction  *handlers.TransactionHandler
	Notification *handlers.NotificationHandler
	Feedback     *handlers.FeedbackHandler
	Report       *handlers.ReportHandler
}

// NewHandlers wires services over db and returns the handlers built on them.
func NewHandlers(db *gorm.DB, publisher events.Publisher, cfg *config.Config) *Handlers {
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	budgetService := services.NewBudgetService(db)
	notificationService := services.NewNotificationService(db, publisher, cfg.BudgetWarningThreshold)
	transactionService := services.NewTransactionService(db, notificationService)
	feedbackService := services.NewFeedbackService(db)
	reportService := services.NewReportService(services.NewGormReportSource(db), cfg.ReportFetchTimeout)
	auditService := services.NewAuditService(db)

	return &Handlers{
		Auth:         handlers.NewAuthHandler(userService, auditService),
		Admin:        handlers.NewAdminHandler(userService, auditService),
		Category:     handlers.NewCategoryHandler(categoryService, auditService),
		Budget:       handlers.NewBudgetHandler(budgetService, auditService),
		Transaction:  handlers.NewTransactionHandler(transactionService, auditService),
		Notification: handlers.NewNotificationHandler(notificationService),
		Feedback:     handlers.NewFeedbackHandler(feedbackService, auditService),
		Report:       handlers.NewReportHandler(reportService),
	}
}

// NewRouter mounts every route on a fresh gin engine.
func NewRouter(h *Handlers, pipelineAPIKey string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)

	categories := protected.Group("/categories")
	categories.GET("", h.Category.ListCategories)
	categories.GET("/:id", h.Category.GetCategory)

	budgets := protected.Group("/budgets")
	budgets.POST("", h.Budget.SetBudget)
	budgets.GET("", h.Budget.GetBudgets)
	budgets.GET("/progress", h.Budget.GetProgress)
	budgets.GET("/:id", h.Budget.GetBudget)
	budgets.PUT("/:id", h.Budget.UpdateBudget)
	budgets.DELETE("/:id", h.Budget.DeleteBudget)

	transactions := protected.Group("/transactions")
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetUserTransactions)
	transactions.GET("/:id", h.Transaction.GetTransactionByID)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)

	notifications := protected.Group("/notifications")
	notifications.GET("", h.Notification.ListNotifications)
	notifications.POST("/read-all", h.Notification.MarkAllRead)
	notifications.POST("/:id/read", h.Notification.MarkRead)
	notifications.DELETE("/:id", h.Notification.DeleteNotification)
	notifications.DELETE("", h.Notification.ClearAll)

	protected.POST("/feedback", h.Feedback.SubmitFeedback)
	protected.GET("/reports/me", h.Report.MyReport)

	admin := protected.Group("/admin")
	admin.Use(middleware.AdminOnly())

	admin.POST("/categories", h.Category.CreateCategory)
	admin.PUT("/categories/:id", h.Category.UpdateCategory)
	admin.DELETE("/categories/:id", h.Category.DeleteCategory)

	admin.GET("/users", h.Admin.ListUsers)
	admin.PUT("/users/:id/role", h.Admin.UpdateRole)
	admin.DELETE("/users/:id", h.Admin.DeactivateUser)

	admin.GET("/reports/users", h.Report.UserSummaries)
	admin.GET("/reports/users/:id", h.Report.UserReport)
	admin.GET("/reports/fleet", h.Report.FleetReport)
	admin.GET("/reports/fleet/export", h.Report.ExportFleet)

	admin.GET("/feedback", h.Feedback.ListFeedback)
	admin.POST("/feedback/:id/resolve", h.Feedback.ResolveFeedback)

	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(pipelineAPIKey))
	pipeline.POST("/notifications/evaluate", h.Notification.EvaluateThresholds)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
