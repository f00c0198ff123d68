// File: homely/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homely/config"
	"homely/cron"
	"homely/database"
	"homely/handlers"
	"homely/middleware"
	"homely/routes"
	"homely/services/catalog"
	"homely/services/customer"
	"homely/services/draft"
	"homely/services/notification"
	"homely/services/orders"
	"homely/services/payment"
	"homely/services/pricing"
	"homely/services/storage"
	"homely/services/tasks"
	"homely/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitDraftCache()
	utils.InitCache()
	utils.FirebaseInit()

	storageService, err := storage.FromConfig()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// External collaborators.
	clientTimeout := time.Duration(config.AppConfig.ClientTimeoutSecs) * time.Second
	pricingClient := pricing.NewClient(config.AppConfig.PricingBaseURL, clientTimeout, logger)
	ordersClient := orders.NewClient(config.AppConfig.OrdersBaseURL, clientTimeout, logger)

	// Read sources.
	catalogService := catalog.NewMongoCatalogService(database.Collection("services"), utils.GetCacheClient())
	customerProvider := customer.NewMongoProvider(database.Collection("customers"), database.Collection("addresses"))
	customerProvider.MarkReady()
	paymentService := payment.NewStripeMethodService()

	// Notifications and background tasks.
	notifService, err := notification.NewDefaultNotificationService(customerProvider)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}
	cron.InitReminderWorker(notifService)
	reminderScheduler := tasks.NewScheduler()

	// The draft orchestrator.
	reconciler := draft.NewPreviewReconciler(pricingClient, config.AppConfig.PreviewOccurrences, clientTimeout, logger)
	assembler := draft.NewSubmissionAssembler(ordersClient, storageService, customerProvider, config.PreviewFreshness(), config.AppConfig.PreviewOccurrences, logger)
	draftService := &draft.DefaultDraftService{
		Cache:      utils.GetDraftCacheClient(),
		Reconciler: reconciler,
		Assembler:  assembler,
		Customers:  customerProvider,
		Reminders:  reminderScheduler,
		Notifier:   notifService,
		Logger:     logger,
	}

	handlers.SetDraftService(draftService)
	handlers.SetCatalogService(catalogService)
	handlers.SetCustomerProvider(customerProvider)
	handlers.SetPaymentService(paymentService)

	routes.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("Homely listening on port %s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: forced shutdown: %v", err)
	}
	logger.Info("Server exited")
}
