package main

import (
	"innkeep/internal/properties/handler"
	"innkeep/internal/properties/repository"
	"innkeep/internal/properties/service"
	"innkeep/internal/properties/validator"
	"innkeep/pkg/app"
	"innkeep/pkg/config"
)

const ServiceName = "properties"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Properties service")

	propertyService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewPropertyHandler(propertyService, cfg.JWTSecret, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.PropertyService {
	propertyValidator := validator.NewPropertyValidator(cfg.Log)
	propertyRepo := repository.NewMongoPropertyRepository(cfg)
	catalog := service.NewCatalog(propertyRepo, cfg.OwnerCacheSize, cfg.OwnerCacheTTL)

	propertyService := service.NewPropertyService(cfg, propertyRepo, propertyValidator, catalog)

	cfg.Log.Info("Property service initialized", "database", cfg.MongoDatabaseName)
	return propertyService
}
