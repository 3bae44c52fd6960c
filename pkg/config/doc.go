// Package config loads typed configuration from environment variables.
//
// Configuration structs declare their variables with caarlos0/env tags.
// Load parses a struct once per type and caches it for the process lifetime;
// a .env file in the working directory is read first when present
// (github.com/joho/godotenv). Parse reads from an explicit variable map and
// skips the cache.
//
//	var cfg httpserver.Config
//	config.MustLoad(&cfg)
//
// Parsing failures are returned joined with ErrParsingConfig.
package config
