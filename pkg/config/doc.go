// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Every infrastructure package in this module declares its own Config
// struct with `env` tags (pg.Config, redis.Config, config.App). Load
// parses any such struct and caches the result per type, so wiring code
// can request the same configuration from several places without
// re-reading the environment:
//
//	var pgCfg pg.Config
//	config.MustLoad(&pgCfg)
//
//	var appCfg config.App
//	config.MustLoad(&appCfg)
//
//	catalog, err := plans.LoadFile(appCfg.PlansFile)
//
// The .env file is read at most once, on the first Load call, and only if
// it exists. Environment variables always take precedence over defaults
// declared in envDefault tags.
package config
