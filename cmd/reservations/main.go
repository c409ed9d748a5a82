package main

import (
	"context"

	"innkeep/internal/properties/repository"
	propertyservice "innkeep/internal/properties/service"
	"innkeep/internal/reservations/handler"
	reservationrepo "innkeep/internal/reservations/repository"
	"innkeep/internal/reservations/service"
	"innkeep/internal/reservations/validator"
	"innkeep/pkg/app"
	"innkeep/pkg/availability"
	"innkeep/pkg/config"
	"innkeep/pkg/kafka"
	kafkaconfig "innkeep/pkg/kafka/config"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")

	reservationService, producer := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(reservationService, cfg.JWTSecret, cfg.Log))
	if producer != nil {
		serverApp.OnShutdown(func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close event producer", "error", err)
			}
		})
	}
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.ReservationService, *kafka.Producer) {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := reservationrepo.NewMongoBookingRepository(cfg)
	lockRepo := reservationrepo.NewPropertyLockRepository(cfg)

	propertyRepo := repository.NewMongoPropertyRepository(cfg)
	catalog := propertyservice.NewCatalog(propertyRepo, cfg.OwnerCacheSize, cfg.OwnerCacheTTL)

	producer, err := kafka.NewProducer(kafkaconfig.Load(), service.TopicBookingEvents)
	if err != nil {
		cfg.Log.Error("Event producer unavailable, booking events disabled", "error", err)
		producer = nil
	}

	var events service.EventPublisher
	if producer != nil {
		events = producer
	}

	reservationService := service.NewReservationService(
		cfg,
		bookingRepo,
		lockRepo,
		bookingValidator,
		availability.NewIndex(),
		availability.NewLatch(),
		catalog,
		events,
	)

	// The availability index is derived state; rebuild it from the ledger
	// before taking traffic.
	if err := reservationService.WarmIndex(context.Background()); err != nil {
		cfg.Log.Fatal("Failed to warm availability index", "error", err)
	}

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService, producer
}
