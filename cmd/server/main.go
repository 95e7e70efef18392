package main

import (
	"net/http"

	"marketbay-be/internal/catalog"
	"marketbay-be/internal/config"
	"marketbay-be/internal/db"
	"marketbay-be/internal/logger"
	"marketbay-be/internal/metrics"
	"marketbay-be/internal/order"
	transporthttp "marketbay-be/internal/transport/http"
	"marketbay-be/internal/user"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	catalogRepo := catalog.NewRepository(database)
	catalogSvc := catalog.NewService(catalogRepo, userRepo)

	engineStats := &metrics.Engine{}
	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, catalogSvc, userRepo, engineStats)

	router := transporthttp.NewRouter(userSvc, catalogSvc, orderSvc)

	logger.L().Info("marketplace server running",
		zap.String("port", cfg.AppPort),
		zap.String("env", cfg.AppEnv),
	)
	if err := http.ListenAndServe(":"+cfg.AppPort, router); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
