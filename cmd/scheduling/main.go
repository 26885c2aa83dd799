package main

import (
	"github.com/julienschmidt/httprouter"

	availabilityhandler "slotwise/internal/availability/handler"
	availabilityservice "slotwise/internal/availability/service"
	bookinghandler "slotwise/internal/bookings/handler"
	bookingrepo "slotwise/internal/bookings/repository"
	bookingservice "slotwise/internal/bookings/service"
	bookingvalidator "slotwise/internal/bookings/validator"
	exceptionhandler "slotwise/internal/exceptions/handler"
	exceptionrepo "slotwise/internal/exceptions/repository"
	exceptionservice "slotwise/internal/exceptions/service"
	exceptionvalidator "slotwise/internal/exceptions/validator"
	healthhandler "slotwise/internal/health/handler"
	settingshandler "slotwise/internal/settings/handler"
	settingsrepo "slotwise/internal/settings/repository"
	settingsservice "slotwise/internal/settings/service"
	settingsvalidator "slotwise/internal/settings/validator"
	"slotwise/pkg/app"
	"slotwise/pkg/config"
	"slotwise/pkg/contracts"
	"slotwise/pkg/kafka"
)

const ServiceName = "scheduling"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Scheduling service")
	handlers := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handlers, healthhandler.NewHealthHandler(cfg.Client.Mongo, cfg.Log))
	serverApp.Run()
}

// compositeHandler registers all domain handlers on one router.
type compositeHandler []contracts.Handler

func (c compositeHandler) RegisterRoutes(router *httprouter.Router) {
	for _, h := range c {
		h.RegisterRoutes(router)
	}
}

func initServices(cfg *config.Config) contracts.Handler {
	settingsSvc := settingsservice.NewSettingsService(
		settingsrepo.NewMongoSettingsRepository(cfg),
		settingsvalidator.NewSettingsValidator(cfg.Log),
		cfg,
	)

	exceptionSvc := exceptionservice.NewExceptionService(
		exceptionrepo.NewMongoExceptionRepository(cfg),
		exceptionvalidator.NewExceptionValidator(cfg.Log),
		cfg,
	)

	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)
	bookingSvc := bookingservice.NewBookingService(
		bookingRepo,
		bookingrepo.NewSlotLockRepository(cfg),
		settingsSvc,
		exceptionSvc,
		bookingvalidator.NewBookingValidator(cfg.Log),
		newEventPublisher(cfg),
		cfg,
	)

	availabilitySvc := availabilityservice.NewAvailabilityService(
		settingsSvc,
		exceptionSvc,
		bookingRepo,
		cfg,
	)

	cfg.Log.Info("Scheduling service initialized", "database", cfg.MongoDatabaseName)
	return compositeHandler{
		settingshandler.NewSettingsHandler(settingsSvc, cfg.Log),
		exceptionhandler.NewExceptionHandler(exceptionSvc, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availabilitySvc, cfg.Log),
	}
}

// newEventPublisher wires the Kafka producer when brokers are configured and
// falls back to a no-op publisher otherwise, so local runs need no broker.
func newEventPublisher(cfg *config.Config) bookingservice.EventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured, booking events disabled")
		return bookingservice.NewNopPublisher()
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaBookingsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	cfg.Log.Info("Kafka producer initialized",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.KafkaBookingsTopic,
	)
	return bookingservice.NewKafkaPublisher(producer, cfg.Log)
}
