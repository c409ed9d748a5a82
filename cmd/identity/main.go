package main

import (
	"innkeep/internal/identity/handler"
	"innkeep/internal/identity/repository"
	"innkeep/internal/identity/service"
	"innkeep/pkg/app"
	"innkeep/pkg/config"
)

const ServiceName = "identity"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Identity service")

	identityService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewIdentityHandler(identityService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.IdentityService {
	ownerRepo := repository.NewMongoOwnerRepository(cfg)
	identityService := service.NewIdentityService(cfg, ownerRepo)

	cfg.Log.Info("Identity service initialized", "database", cfg.MongoDatabaseName)
	return identityService
}
