package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"qr-table-service/internal/auth"
	"qr-table-service/internal/models"
	"qr-table-service/internal/projection"
	"qr-table-service/internal/redisclient"
	"qr-table-service/internal/service"
	"qr-table-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	authService    *service.AuthService
	userService    *service.UserService
	catalogService *service.CatalogService
	orderService   *service.OrderService
	lifecycle      *service.LifecycleService
	occupancy      *service.OccupancyService
	tableCalls     *service.TableCallService
	projector      *projection.Projector
	redis          *redisclient.Client
	tokens         *auth.TokenManager
	restaurantSvc  *service.RestaurantService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	authService *service.AuthService,
	userService *service.UserService,
	catalogService *service.CatalogService,
	orderService *service.OrderService,
	lifecycle *service.LifecycleService,
	occupancy *service.OccupancyService,
	tableCalls *service.TableCallService,
	projector *projection.Projector,
	redis *redisclient.Client,
	tokens *auth.TokenManager,
	restaurantSvc *service.RestaurantService,
) *Handler {
	return &Handler{
		authService:    authService,
		userService:    userService,
		catalogService: catalogService,
		orderService:   orderService,
		lifecycle:      lifecycle,
		occupancy:      occupancy,
		tableCalls:     tableCalls,
		projector:      projector,
		redis:          redis,
		tokens:         tokens,
		restaurantSvc:  restaurantSvc,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	// Public endpoints: the table QR flow needs no session.
	v1.POST("/auth/login", h.login)
	v1.POST("/auth/logout", h.logout)
	v1.GET("/restaurant", h.getRestaurant)
	v1.GET("/categories", h.listCategories)
	v1.GET("/categories/:id", h.getCategory)
	v1.GET("/products", h.listProducts)
	v1.GET("/products/:id", h.getProduct)
	v1.POST("/orders", h.createOrder)
	v1.GET("/orders/:id", h.getOrder)
	v1.GET("/orders/:id/stream", h.streamOrder)
	v1.POST("/table-calls", h.createTableCall)
	v1.GET("/tables/:tableNumber/occupied", h.isTableOccupied)

	// Staff endpoints require a session.
	staff := v1.Group("")
	staff.Use(RequireAuth(h.tokens))
	{
		staff.GET("/auth/me", h.me)
		staff.GET("/orders", h.listOrders)
		staff.GET("/orders/stream", h.streamOrders)
		staff.PATCH("/orders/:id/status", h.advanceOrderStatus)
		staff.PUT("/orders/:id/items", RequireRole(models.RoleWaiter, models.RoleAdmin), h.editOrderItems)
		staff.GET("/tables/occupied", h.listOccupiedTables)
		staff.GET("/table-calls", h.listTableCalls)
		staff.GET("/table-calls/stream", h.streamTableCalls)
		staff.POST("/table-calls/:id/attend", h.attendTableCall)
		staff.GET("/dashboard/stats", h.dashboardStats)
	}

	// Admin-only management endpoints.
	admin := v1.Group("")
	admin.Use(RequireAuth(h.tokens), RequireRole(models.RoleAdmin))
	{
		admin.PUT("/restaurant", h.updateRestaurant)
		admin.GET("/categories/all", h.listAllCategories)
		admin.POST("/categories", h.createCategory)
		admin.PUT("/categories/:id", h.updateCategory)
		admin.DELETE("/categories/:id", h.deleteCategory)
		admin.POST("/products", h.createProduct)
		admin.PUT("/products/:id", h.updateProduct)
		admin.DELETE("/products/:id", h.deleteProduct)
		admin.GET("/users", h.listUsers)
		admin.POST("/users", h.createUser)
		admin.GET("/users/:id", h.getUser)
		admin.PUT("/users/:id", h.updateUser)
		admin.DELETE("/users/:id", h.deleteUser)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// respondError maps the error taxonomy onto HTTP statuses. The UI owns the
// human-readable wording; the API only names the failure.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrTableOccupied),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrOrderNotEditable):
		status = http.StatusConflict
	case errors.Is(err, models.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, service.ErrBadCredentials):
		status = http.StatusUnauthorized
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
