package main

import (
	"os"

	"github.com/ikram98ai/docgram/internal/config"
	"github.com/ikram98ai/docgram/internal/stubapi"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	godotenv.Load()
	initConfig()

	jwtSecret := os.Getenv("STUB_JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "docgram-stub-secret"
	}

	cfg := config.StubServer()
	handler := stubapi.New(logger, stubapi.NewStore(), []byte(jwtSecret))

	logger.Sugar().Infof("Stub API listening on :%s", cfg.Port)
	if err := handler.InitRoutes(cfg.ClientOrigin).Run(":" + cfg.Port); err != nil {
		logger.Sugar().Panicf("failed to run stub server: %s", err.Error())
	}
}

func initConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")
	viper.ReadInConfig()
}
