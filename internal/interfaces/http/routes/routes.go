// internal/interfaces/http/routes/routes.go
package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/foodie-backend/internal/config"
	"github.com/your-org/foodie-backend/internal/domain/address"
	"github.com/your-org/foodie-backend/internal/domain/cart"
	"github.com/your-org/foodie-backend/internal/domain/checkout"
	"github.com/your-org/foodie-backend/internal/domain/content"
	"github.com/your-org/foodie-backend/internal/domain/feedback"
	"github.com/your-org/foodie-backend/internal/domain/i18n"
	"github.com/your-org/foodie-backend/internal/domain/order"
	"github.com/your-org/foodie-backend/internal/domain/payment"
	"github.com/your-org/foodie-backend/internal/domain/preference"
	infraredis "github.com/your-org/foodie-backend/internal/infrastructure/database/redis"
	"github.com/your-org/foodie-backend/internal/infrastructure/storage"
	"github.com/your-org/foodie-backend/internal/interfaces/http/handlers"
	"github.com/your-org/foodie-backend/internal/interfaces/http/middleware"
	"github.com/your-org/foodie-backend/internal/pkg/apperror"
	"github.com/your-org/foodie-backend/internal/pkg/auth"
	"github.com/your-org/foodie-backend/internal/pkg/email"
	"github.com/your-org/foodie-backend/internal/pkg/keylock"
	"github.com/your-org/foodie-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// Dependencies are the connections shared by every route group
type Dependencies struct {
	Config    *config.Config
	DB        *gorm.DB
	Redis     *infraredis.Client
	Logger    *logrus.Logger
	ErrorLog  *apperror.Log
	Publisher order.EventPublisher // nil disables order events
	Email     *email.EmailService
}

// Services are the domain services behind the handlers
type Services struct {
	Carts       *cart.Manager
	Checkout    *checkout.Service
	Orders      *order.Service
	Addresses   *address.Service
	Preferences *preference.Service
	I18n        *i18n.Service
	Content     *content.Service
	Feedback    *feedback.Service
	PDF         *pdf.Service
}

// NewServices builds the domain services over the shared connections
func NewServices(deps Dependencies) (*Services, error) {
	cfg := deps.Config

	session := storage.NewSessionStore(deps.Redis.GetClient(), cfg.Storage.SessionTTL)
	durable := storage.NewDurableStore(deps.DB)

	pricing := cart.Pricing{
		TaxRate:     cfg.Checkout.TaxRate,
		DeliveryFee: cfg.Checkout.DeliveryFee,
	}
	carts := cart.NewManager(
		cart.NewStore(session, durable, deps.ErrorLog, deps.Logger, cfg.Checkout.PlaceholderImage),
		keylock.NewDistributed(deps.Redis.GetClient(), cfg.Storage.LockTTL, deps.Logger),
		pricing,
	)

	var notifier order.Notifier
	if deps.Email != nil {
		notifier = deps.Email
	}
	orders := order.NewService(deps.DB, deps.Publisher, notifier, deps.Logger)

	attempts := checkout.NewAttemptStore(deps.Redis, cfg.Storage.SessionTTL)
	checkoutService := checkout.NewService(
		cfg,
		carts,
		attempts,
		payment.NewRazorpayService(cfg, deps.Logger),
		orders,
		auth.NewJWTManager(cfg),
		deps.ErrorLog,
		deps.Logger,
	)

	bundles, err := i18n.NewService(cfg, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}

	var ack feedback.Acknowledger
	if deps.Email != nil {
		ack = deps.Email
	}

	return &Services{
		Carts:       carts,
		Checkout:    checkoutService,
		Orders:      orders,
		Addresses:   address.NewService(cfg, deps.Redis.GetClient(), deps.ErrorLog, deps.Logger),
		Preferences: preference.NewService(durable, bundles, cfg.I18n.DefaultLanguage),
		I18n:        bundles,
		Content:     content.NewService(),
		Feedback:    feedback.NewService(deps.DB, ack, deps.Logger),
		PDF:         pdf.NewService(cfg),
	}, nil
}

// SetupRoutes registers every API group under rg
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies) (*Services, error) {
	services, err := NewServices(deps)
	if err != nil {
		return nil, err
	}

	// Every API call is scoped to a tab session and a device client
	rg.Use(middleware.Session(deps.Config))

	SetupCartRoutes(rg, services)
	SetupCheckoutRoutes(rg, services)
	SetupOrderRoutes(rg, services)
	SetupAddressRoutes(rg, services)
	SetupPreferenceRoutes(rg, services)
	SetupContentRoutes(rg, services)
	SetupFeedbackRoutes(rg, services)

	if deps.Config.IsDevelopment() {
		SetupDebugRoutes(rg, deps.ErrorLog)
	}

	return services, nil
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(rg *gin.RouterGroup, services *Services) {
	cartHandler := handlers.NewCartHandler(services.Carts)

	carts := rg.Group("/cart")
	{
		carts.GET("", cartHandler.GetCart)
		carts.PUT("", cartHandler.ReplaceCart)
		carts.POST("/items", cartHandler.AddToCart)
		carts.PATCH("/items/:id", cartHandler.UpdateCartItem)
		carts.DELETE("", cartHandler.ClearCart)
	}
}

// SetupCheckoutRoutes sets up checkout and payment routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, services *Services) {
	checkoutHandler := handlers.NewCheckoutHandler(services.Checkout)

	co := rg.Group("/checkout")
	{
		co.POST("", checkoutHandler.PlaceOrder)
		co.POST("/validate", checkoutHandler.ValidateForm)
		co.GET("/attempts/:id", checkoutHandler.GetAttempt)

		pay := co.Group("/payment")
		{
			pay.POST("/success", checkoutHandler.PaymentSuccess)
			pay.POST("/cancel", checkoutHandler.PaymentCancel)
		}
	}
}

// SetupOrderRoutes sets up order history routes
func SetupOrderRoutes(rg *gin.RouterGroup, services *Services) {
	orderHandler := handlers.NewOrderHandler(services.Orders, services.PDF)

	orders := rg.Group("/orders")
	{
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:number", orderHandler.GetOrder)
		orders.GET("/:number/receipt", orderHandler.GetReceipt)
	}
}

// SetupAddressRoutes sets up city and pincode lookup routes
func SetupAddressRoutes(rg *gin.RouterGroup, services *Services) {
	addressHandler := handlers.NewAddressHandler(services.Addresses)

	addr := rg.Group("/address")
	{
		addr.GET("/cities", addressHandler.SearchCities)
		addr.POST("/cities/select", addressHandler.SelectCity)
		addr.GET("/pincode", addressHandler.LookupPincode)
		addr.POST("/distance", addressHandler.CheckDistance)
	}
}

// SetupPreferenceRoutes sets up theme and language routes
func SetupPreferenceRoutes(rg *gin.RouterGroup, services *Services) {
	preferenceHandler := handlers.NewPreferenceHandler(services.Preferences)
	i18nHandler := handlers.NewI18nHandler(services.I18n)

	prefs := rg.Group("/preferences")
	{
		prefs.GET("/theme", preferenceHandler.GetTheme)
		prefs.PUT("/theme", preferenceHandler.SetTheme)
		prefs.POST("/theme/toggle", preferenceHandler.ToggleTheme)
		prefs.GET("/language", preferenceHandler.GetLanguage)
		prefs.PUT("/language", preferenceHandler.SetLanguage)
	}

	translations := rg.Group("/i18n")
	{
		translations.GET("", i18nHandler.ListLanguages)
		translations.GET("/:lang", i18nHandler.GetBundle)
	}
}

// SetupContentRoutes sets up the home page content routes
func SetupContentRoutes(rg *gin.RouterGroup, services *Services) {
	contentHandler := handlers.NewContentHandler(services.Content, services.I18n, services.Preferences)

	pages := rg.Group("/content")
	{
		pages.GET("/reviews", contentHandler.GetReviews)
		pages.GET("/restaurants", contentHandler.GetRestaurants)
		pages.GET("/footer", contentHandler.GetFooter)
	}

	rg.GET("/menu/search", contentHandler.SearchMenu)
}

// SetupFeedbackRoutes sets up the feedback and partner forms
func SetupFeedbackRoutes(rg *gin.RouterGroup, services *Services) {
	feedbackHandler := handlers.NewFeedbackHandler(services.Feedback)

	rg.POST("/feedback", feedbackHandler.SubmitFeedback)
	rg.POST("/partners", feedbackHandler.SubmitPartner)
}

// SetupDebugRoutes exposes the error log. Development only.
func SetupDebugRoutes(rg *gin.RouterGroup, errLog *apperror.Log) {
	debugHandler := handlers.NewDebugHandler(errLog)

	debug := rg.Group("/debug")
	{
		debug.GET("/errors", debugHandler.ListErrors)
		debug.DELETE("/errors", debugHandler.ClearErrors)
	}
}
