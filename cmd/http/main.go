package main

import (
	"context"
	"log"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"
	"medibook-service/internal/app/delivery/http/routers"
	"medibook-service/internal/app/drivers/database"
	"medibook-service/internal/app/drivers/logger"
	driverMailer "medibook-service/internal/app/drivers/mailer"
	"medibook-service/internal/app/drivers/messaging"
	driverStorage "medibook-service/internal/app/drivers/storage"
	"medibook-service/internal/app/services/core/bookings"
	"medibook-service/internal/app/services/core/notifications"
	"medibook-service/internal/app/services/core/payments"
	"medibook-service/internal/app/services/core/persons"
	"medibook-service/internal/app/services/core/slots"
	"medibook-service/internal/app/services/core/sweeper"
	"medibook-service/internal/app/services/shared/locker"
	sharedMailer "medibook-service/internal/app/services/shared/mailer"
	"medibook-service/internal/app/services/shared/notifqueue"
	"medibook-service/internal/app/services/shared/payment_gateway"
	"medibook-service/internal/app/services/shared/redis"
	sharedStorage "medibook-service/internal/app/services/shared/storage"
	"medibook-service/internal/app/services/shared/txmanager"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	requestLogger := logger.NewLogrusLogger(internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	mongoClient := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitConn := messaging.NewRabbitMQ(driverConfig)
	minioClient := driverStorage.NewMinio(driverConfig)
	smtpClient := driverMailer.NewSMTPClient(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoClient,
		Redis:          redisClient,
		RabbitMQ:       rabbitConn,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	db := mongoClient.Database(driverConfig.MongoDB.DbName)

	// Shared services
	redisRepository := redis.NewRedisRepository(redisClient)
	lockService := locker.NewLockService(redisRepository, zapLogger)
	txManager := txmanager.NewMongoTxManager(mongoClient, zapLogger)
	gatewayService := payment_gateway.NewRazorpayService(internalConfig, zapLogger)
	webhookArchive := sharedStorage.NewWebhookArchiveService(minioClient, driverConfig, zapLogger)
	notifier := sharedMailer.NewMailNotifier(smtpClient, zapLogger)

	queueService, err := notifqueue.NewService(rabbitConn, zapLogger, internalConfig.Notification.Partitions)
	if err != nil {
		log.Fatalf("Failed to set up notification queues: %v", err)
	}

	// Repositories
	personRepository := persons.NewPersonMongoRepository(db, zapLogger)
	doctorRepository := persons.NewDoctorMongoRepository(db, zapLogger)
	slotRepository := slots.NewSlotMongoRepository(db, zapLogger)
	appointmentRepository := bookings.NewAppointmentMongoRepository(db, zapLogger)
	paymentOrderRepository := payments.NewPaymentOrderMongoRepository(db, zapLogger)

	// Usecases
	dispatcher := notifications.NewDispatcher(queueService, zapLogger)
	slotUsecase := slots.NewSlotUsecase(slotRepository, doctorRepository, zapLogger)
	bookingUsecase := bookings.NewBookingUsecase(
		slotRepository,
		appointmentRepository,
		paymentOrderRepository,
		personRepository,
		doctorRepository,
		gatewayService,
		lockService,
		txManager,
		internalConfig,
		zapLogger,
	)
	paymentUsecase := payments.NewPaymentUsecase(
		paymentOrderRepository,
		appointmentRepository,
		slotRepository,
		personRepository,
		doctorRepository,
		gatewayService,
		lockService,
		txManager,
		dispatcher,
		internalConfig,
		zapLogger,
	)

	// Background workers
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	sweeperWorker := sweeper.NewWorker(paymentUsecase, appointmentRepository, lockService, internalConfig, zapLogger)
	sweeperStop, err := sweeperWorker.Start(rootCtx)
	if err != nil {
		log.Fatalf("Failed to start timeout sweeper: %v", err)
	}
	bootstrap.SweeperStop = sweeperStop

	consumerWorker := notifications.NewConsumerWorker(queueService, notifier, notifications.RetryPolicy{
		MaxAttempts: internalConfig.Notification.MaxAttempts,
		Delay:       time.Duration(internalConfig.Notification.RetryDelayInSec) * time.Second,
	}, zapLogger)
	consumerStop, err := consumerWorker.Start(rootCtx)
	if err != nil {
		log.Fatalf("Failed to start notification consumers: %v", err)
	}
	bootstrap.ConsumerStop = consumerStop

	// HTTP delivery
	appMiddlewares := middlewares.NewMiddlewares(internalConfig, zapLogger)
	appointmentController := controllers.NewAppointmentController(zapLogger, bookingUsecase, paymentUsecase)
	paymentController := controllers.NewPaymentController(zapLogger, paymentUsecase, webhookArchive)
	slotController := controllers.NewSlotController(zapLogger, slotUsecase)

	routers.SetupRoutes(
		chiRouter,
		internalConfig,
		appMiddlewares,
		requestLogger,
		appointmentController,
		paymentController,
		slotController,
	)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	rootCancel()
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server exiting")
}
