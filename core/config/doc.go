// Package config provides type-safe environment variable loading with
// per-type caching using Go generics.
//
// The package loads .env files on first use and parses environment
// variables into struct fields via the caarlos0/env library:
//
//	type APIConfig struct {
//		BaseURL string        `env:"LMS_API_URL" envDefault:"http://localhost:8080"`
//		Timeout time.Duration `env:"LMS_API_TIMEOUT" envDefault:"10s"`
//	}
//
//	var cfg APIConfig
//	config.MustLoad(&cfg)
//
// Each configuration type is parsed once per process lifetime; later Load
// calls for the same type return the cached value. Different types cache
// independently.
package config
