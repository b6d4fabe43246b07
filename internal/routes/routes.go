package routes

import (
	"github.com/gin-gonic/gin"

	"vena/internal/authz"
	"vena/internal/handlers"
	"vena/internal/middleware"
	"vena/internal/realtime"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	User          *handlers.UserHandler
	Lead          *handlers.LeadHandler
	Client        *handlers.ClientHandler
	Project       *handlers.ProjectHandler
	Catalog       *handlers.CatalogHandler
	Finance       *handlers.FinanceHandler
	Report        *handlers.ReportHandler
	Notification  *handlers.NotificationHandler
	Public        *handlers.PublicHandler
	Notifications *realtime.Hub
}

func SetupRoutes(r *gin.Engine, jwtSecret []byte, h Handlers) *gin.Engine {
	// ---- public
	r.POST("/login", h.Auth.Login)

	public := r.Group("/public")
	{
		public.GET("/catalog", h.Public.GetCatalog)
		public.POST("/pricing/preview", h.Public.Preview)
		public.POST("/bookings", h.Public.SubmitBooking)
		public.POST("/leads", h.Lead.CapturePublic)
		public.GET("/portal/:token", h.Public.Portal)
	}

	// ---- protected
	auth := middleware.AuthMiddleware(jwtSecret)
	api := r.Group("/", auth, middleware.ReadOnlyGuard())

	api.GET("/ws/notifications", h.Notifications.ServeWS)
	api.GET("/me", h.User.Me)

	users := api.Group("/users", middleware.RequireRoles(authz.RoleOwner, authz.RoleManager))
	{
		users.POST("", h.User.CreateUser)
		users.GET("", h.User.ListUsers)
	}

	leads := api.Group("/leads")
	{
		leads.POST("", h.Lead.Create)
		leads.GET("", h.Lead.List)
		leads.GET("/:id", h.Lead.GetByID)
		leads.PUT("/:id", h.Lead.Update)
		leads.PATCH("/:id/status", h.Lead.UpdateStatus)
		leads.POST("/:id/convert", h.Lead.Convert)
	}

	clients := api.Group("/clients")
	{
		clients.POST("", h.Client.Create)
		clients.GET("", h.Client.List)
		clients.GET("/:id", h.Client.GetByID)
		clients.PUT("/:id", h.Client.Update)
		clients.POST("/:id/contact", h.Client.Touch)
		clients.DELETE("/:id", middleware.RequireRoles(authz.RoleOwner, authz.RoleManager), h.Client.Delete)
	}

	projects := api.Group("/projects")
	{
		projects.GET("", h.Project.List)
		projects.GET("/:id", h.Project.GetByID)
		projects.PATCH("/:id/booking-status", h.Project.UpdateBookingStatus)
		projects.PATCH("/:id/progress", h.Project.UpdateProgress)
		projects.POST("/:id/payments", middleware.RequireMoneyRole(), h.Project.RecordPayment)
		projects.GET("/:id/transactions", h.Project.Transactions)
		projects.GET("/:id/invoice", h.Project.Invoice)
	}
	api.GET("/bookings/confirmed", h.Project.ListConfirmed)

	catalogAdmin := middleware.RequireRoles(authz.RoleOwner, authz.RoleManager)
	packages := api.Group("/packages")
	{
		packages.GET("", h.Catalog.ListPackages)
		packages.GET("/:id", h.Catalog.GetPackage)
		packages.POST("", catalogAdmin, h.Catalog.CreatePackage)
		packages.PUT("/:id", catalogAdmin, h.Catalog.UpdatePackage)
	}
	addOns := api.Group("/add-ons")
	{
		addOns.GET("", h.Catalog.ListAddOns)
		addOns.POST("", catalogAdmin, h.Catalog.CreateAddOn)
	}
	promos := api.Group("/promo-codes")
	{
		promos.GET("", h.Catalog.ListPromos)
		promos.POST("", catalogAdmin, h.Catalog.CreatePromo)
		promos.PUT("/:id", catalogAdmin, h.Catalog.UpdatePromo)
	}
	api.POST("/pricing/preview", h.Catalog.Preview)

	money := middleware.RequireMoneyRole()
	api.GET("/cards", h.Finance.ListCards)
	api.POST("/cards", money, h.Finance.CreateCard)
	transactions := api.Group("/transactions")
	{
		transactions.GET("", h.Finance.ListTransactions)
		transactions.POST("", money, h.Finance.CreateTransaction)
		transactions.GET("/:id/receipt", h.Finance.Receipt)
	}

	api.GET("/reports/dashboard", h.Report.Dashboard)

	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.Notification.List)
		notifications.POST("/:id/read", h.Notification.MarkRead)
	}

	return r
}
