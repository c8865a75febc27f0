package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"skipper/internal/infra/config"
	"skipper/internal/infra/obs"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	ListMine(c *gin.Context)
	Confirm(c *gin.Context)
	Cancel(c *gin.Context)
	Fulfill(c *gin.Context)
	ApplyDiscount(c *gin.Context)
	RemoveDiscount(c *gin.Context)
	MakePayment(c *gin.Context)
}

type AvailabilityHTTP interface {
	DaySlots(c *gin.Context)
}

type MaintenanceHTTP interface {
	Block(c *gin.Context)
	Release(c *gin.Context)
}

type Handlers struct {
	Booking        BookingHTTP
	Availability   AvailabilityHTTP
	Maintenance    MaintenanceHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-User-ID", "X-User-Name", "X-User-Groups", "X-Admin-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.GET("/bookings/:id", h.Booking.Get)
		api.GET("/me/bookings", h.Booking.ListMine)
		api.POST("/bookings/:id/confirm", h.Booking.Confirm)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
		api.POST("/bookings/:id/fulfill", h.Booking.Fulfill)
		api.POST("/bookings/:id/discounts", h.Booking.ApplyDiscount)
		api.DELETE("/bookings/:id/discounts/:discountId", h.Booking.RemoveDiscount)
		api.POST("/bookings/:id/payments", h.Booking.MakePayment)
	}
	if h.Availability != nil {
		api.GET("/assets/:id/slots", h.Availability.DaySlots)
	}
	if h.Maintenance != nil {
		api.POST("/assets/:id/maintenance", h.Maintenance.Block)
		api.DELETE("/assets/:id/maintenance/:occupancyId", h.Maintenance.Release)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}

var (
	_ BookingHTTP      = BookingHandler{}
	_ AvailabilityHTTP = AvailabilityHandler{}
	_ MaintenanceHTTP  = MaintenanceHandler{}
)
