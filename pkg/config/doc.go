// Package config loads per-package configuration structs from environment
// variables.
//
// Each component declares its own Config struct with `env` tags; Load parses
// it once per type and caches the result for the process lifetime. A .env
// file, when present, is loaded before the first parse so local development
// and production share one configuration surface.
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
package config
