package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	internal_config "github.com/laundryos/washstack/internal/config"
	"github.com/laundryos/washstack/internal/logger"
	"github.com/laundryos/washstack/internal/tracing"
)

type Config struct {
	AppConfig            *internal_config.AppConfig
	Logger               *logger.Config
	Tracing              *tracing.JaegerConfig
	DatabaseConfig       *internal_config.DatabaseConfig
	OpenAIConfig         *internal_config.OpenAIConfig
	TwilioConfig         *internal_config.TwilioConfig
	WebhookSecretsConfig *internal_config.WebhookSecretsConfig
	PipelineConfig       *internal_config.PipelineConfig
}

func InitConfig() (*Config, error) {
	config := &Config{
		AppConfig:            &internal_config.AppConfig{},
		Logger:               &logger.Config{},
		Tracing:              &tracing.JaegerConfig{},
		DatabaseConfig:       &internal_config.DatabaseConfig{},
		OpenAIConfig:         &internal_config.OpenAIConfig{},
		TwilioConfig:         &internal_config.TwilioConfig{},
		WebhookSecretsConfig: &internal_config.WebhookSecretsConfig{},
		PipelineConfig:       &internal_config.PipelineConfig{},
	}

	err := godotenv.Load()
	if err != nil {
		log.Print("Unable to load .env file")
	}

	err = env.Parse(config)
	if err != nil {
		log.Fatalf("Error loading washstack config: %v", err)
	}

	return config, nil
}
