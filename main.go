// File: roamly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roamly/config"
	"roamly/cron"
	"roamly/database"
	refundRepo "roamly/database/repository/refund"
	reservationRepo "roamly/database/repository/reservation"
	slotRepo "roamly/database/repository/slot"
	"roamly/handlers"
	"roamly/middleware"
	"roamly/routes"
	"roamly/services/booking"
	"roamly/services/notification"
	"roamly/services/payment"
	"roamly/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())

	// repositories.
	slots := slotRepo.NewMongoSlotRepo()
	reservations := reservationRepo.NewMongoReservationRepo()
	refunds := refundRepo.NewMongoRefundRepo()

	// side-effect queue client.
	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer queueClient.Close()

	// services.
	locker := booking.NewKeyedSlotLocker()
	clock := booking.SystemClock()
	emitter := notification.NewQueueEventEmitter(queueClient)
	refundDispatcher := payment.NewQueueRefundDispatcher(queueClient)

	availability := &booking.AvailabilityCalculator{
		Slots:        slots,
		Reservations: reservations,
	}
	reservationService := &booking.ReservationService{
		Slots:        slots,
		Reservations: reservations,
		Locker:       locker,
		Clock:        clock,
		Events:       emitter,
		LockWait:     config.SlotLockWait(),
	}
	releaseService := &booking.ReleaseService{
		Slots:  slots,
		Locker: locker,
	}
	canceller := &booking.CancellationOrchestrator{
		Reservations: reservations,
		Slots:        slots,
		Release:      releaseService,
		Locker:       locker,
		Clock:        clock,
		Events:       emitter,
		Refunds:      refundDispatcher,
		LockWait:     config.SlotLockWait(),
	}

	bookingHandler := handlers.NewBookingHandler(
		availability,
		reservationService,
		canceller,
		utils.GetCacheClient(),
		logger,
	)

	// Register routes.
	routes.RegisterRoutes(router, bookingHandler)

	// Start the side-effect worker (refund requests + booking events).
	cron.InitSideEffectWorker(refunds, payment.NewStripeRefundGateway())

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
