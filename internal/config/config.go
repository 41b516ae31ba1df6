package config

import (
	"time"

	"github.com/spf13/viper"
)

type APIConfig struct {
	Origin  string
	Timeout time.Duration
}

type CacheConfig struct {
	Size int
	TTL  time.Duration
}

type StubServerConfig struct {
	Port         string
	ClientOrigin string
}

func setDefaults() {
	viper.SetDefault("api.origin", "http://localhost:8080/api/v1")
	viper.SetDefault("api.timeout", "30s")
	viper.SetDefault("cache.size", 500)
	viper.SetDefault("cache.ttl", "1h")
	viper.SetDefault("stub.port", "8080")
	viper.SetDefault("stub.client_origin", "http://localhost:5173")
}

func API() APIConfig {
	setDefaults()
	return APIConfig{
		Origin: viper.GetString("api.origin"),
		Timeout: viper.GetDuration("api.timeout"),
	}
}

func Cache() CacheConfig {
	setDefaults()
	return CacheConfig{
		Size: viper.GetInt("cache.size"),
		TTL: viper.GetDuration("cache.ttl"),
	}
}

func StubServer() StubServerConfig {
	setDefaults()
	return StubServerConfig{
		Port: viper.GetString("stub.port"),
		ClientOrigin: viper.GetString("stub.client_origin"),
	}
}
