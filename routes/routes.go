package routes

import (
	"time"

	"delivery-backend/delivery"
	"delivery-backend/firebase"
	"delivery-backend/handlers"
	"delivery-backend/middleware"
	"delivery-backend/notify"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries what the handlers need.
type Deps struct {
	DB             *gorm.DB
	Storage        firebase.StorageClient
	Quoter         *delivery.Quoter
	Hub            *notify.Hub
	Publisher      notify.Publisher
	AllowedOrigins []string
	RecalcWorkers  int

	// Applied per client to login and the public write endpoints.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// SetupRoutes registers every route and returns the rate limiter so the
// caller can stop it on shutdown.
func SetupRoutes(r *gin.Engine, d Deps) *middleware.RateLimiter {
	if d.RateLimitRequests < 1 {
		d.RateLimitRequests = 30
	}
	if d.RateLimitWindow <= 0 {
		d.RateLimitWindow = time.Minute
	}
	limiter := middleware.NewRateLimiter(d.RateLimitRequests, d.RateLimitWindow)

	authHandler := &handlers.AuthHandler{DB: d.DB}
	menuHandler := &handlers.MenuHandler{DB: d.DB}
	feeHandler := &handlers.DeliveryFeeHandler{DB: d.DB, Quoter: d.Quoter}
	clientHandler := &handlers.ClientHandler{DB: d.DB, Quoter: d.Quoter}
	orderHandler := &handlers.OrderHandler{DB: d.DB, Quoter: d.Quoter, Publisher: d.Publisher}
	establishmentHandler := &handlers.EstablishmentHandler{DB: d.DB, Storage: d.Storage}
	typeHandler := &handlers.ProductTypeHandler{DB: d.DB}
	addonHandler := &handlers.AddonHandler{DB: d.DB}
	productHandler := &handlers.ProductHandler{DB: d.DB, Storage: d.Storage}
	promotionHandler := &handlers.PromotionHandler{DB: d.DB, Storage: d.Storage}
	toggleHandler := &handlers.ToggleHandler{DB: d.DB}
	rangeHandler := &handlers.DeliveryRangeHandler{DB: d.DB}
	paymentHandler := &handlers.PaymentMethodHandler{DB: d.DB}
	dashboardHandler := &handlers.DashboardHandler{DB: d.DB}
	recalcHandler := &handlers.RecalcHandler{DB: d.DB, Workers: d.RecalcWorkers}
	wsHandler := handlers.NewWebSocketHandler(d.DB, d.Hub, d.AllowedOrigins)

	api := r.Group("/api")

	// Storefront
	{
		api.POST("/auth/login", limiter.Middleware(), authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)

		api.POST("/delivery-fee", limiter.Middleware(), feeHandler.CalculateFee)
		api.GET("/menu/:slug", menuHandler.GetMenu)
		api.POST("/menu/:slug/orders", limiter.Middleware(), orderHandler.CreateOrder)
		api.GET("/menu/:slug/clients/:phone", clientHandler.LookupClient)
		api.POST("/menu/:slug/clients", limiter.Middleware(), clientHandler.UpsertClient)
	}

	authenticated := api.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		authenticated.GET("/me", authHandler.Me)
		authenticated.POST("/auth/logout", authHandler.Logout)
	}

	staff := api.Group("")
	staff.Use(middleware.AuthMiddleware(), middleware.StaffMiddleware())
	{
		staff.PATCH("/business", establishmentHandler.UpdateBusiness)

		staff.GET("/types", typeHandler.GetProductTypes)
		staff.GET("/types/:id", typeHandler.GetProductType)
		staff.POST("/types", typeHandler.CreateProductType)
		staff.PUT("/types/:id", typeHandler.UpdateProductType)

		staff.GET("/addons", addonHandler.GetAddons)
		staff.GET("/addons/:id", addonHandler.GetAddon)
		staff.POST("/addons", addonHandler.CreateAddon)
		staff.PUT("/addons/:id", addonHandler.UpdateAddon)

		staff.GET("/products", productHandler.GetProducts)
		staff.GET("/products/:id", productHandler.GetProduct)
		staff.POST("/products", productHandler.CreateProduct)
		staff.PUT("/products/:id", productHandler.UpdateProduct)

		staff.GET("/promotions", promotionHandler.GetPromotions)
		staff.GET("/promotions/:id", promotionHandler.GetPromotion)
		staff.POST("/promotions", promotionHandler.CreatePromotion)
		staff.PUT("/promotions/:id", promotionHandler.UpdatePromotion)

		staff.POST("/toggle-active/:model/:id", toggleHandler.ToggleActive)

		staff.GET("/orders", orderHandler.ListOrders)
		staff.GET("/orders/transitions", orderHandler.GetOrderTransitions)
		staff.GET("/orders/:id", orderHandler.GetOrder)
		staff.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
		staff.GET("/orders/:id/print", orderHandler.PrintOrder)

		staff.GET("/delivery-ranges", rangeHandler.ListRanges)
		staff.POST("/delivery-ranges", rangeHandler.CreateRange)
		staff.PUT("/delivery-ranges/:id", rangeHandler.UpdateRange)
		staff.DELETE("/delivery-ranges/:id", rangeHandler.DeleteRange)

		staff.GET("/payment-methods", paymentHandler.ListPaymentMethods)
		staff.POST("/payment-methods", paymentHandler.CreatePaymentMethod)
		staff.DELETE("/payment-methods/:id", paymentHandler.DeletePaymentMethod)

		staff.GET("/dashboard", dashboardHandler.GetDashboard)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/establishments", establishmentHandler.ListEstablishments)
		admin.GET("/establishments/:id", establishmentHandler.GetEstablishment)
		admin.POST("/establishments", establishmentHandler.CreateEstablishment)
		admin.PUT("/establishments/:id", establishmentHandler.UpdateEstablishment)
		admin.DELETE("/establishments/:id", establishmentHandler.DeleteEstablishment)

		admin.POST("/users", authHandler.CreateUser)

		admin.POST("/orders/recalculate", recalcHandler.StartRecalculation)
		admin.GET("/jobs/:id", recalcHandler.GetJob)
	}

	// The token travels in the query string, see OrdersFeed.
	r.GET("/ws/orders/:id", wsHandler.OrdersFeed)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return limiter
}
