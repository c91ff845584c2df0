// Package config loads typed configuration from environment variables.
//
// Structs describe their variables with `env` and `envDefault` tags
// (github.com/caarlos0/env). Load parses a struct once per type and caches
// the result; Reload bypasses the cache. LoadEnv reads .env files through
// github.com/joho/godotenv without overriding variables already set.
//
//	type Config struct {
//	    SchemaFile string `env:"PARAMGUARD_SCHEMA_FILE"`
//	    LogLevel   string `env:"PARAMGUARD_LOG_LEVEL" envDefault:"info"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
package config
