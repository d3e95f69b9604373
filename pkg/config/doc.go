// Package config loads typed configuration from environment variables and
// optional .env files using caarlos0/env and joho/godotenv.
//
// Each configuration type is parsed once and cached:
//
//	var app config.App
//	if err := config.Load(&app); err != nil {
//		return err
//	}
//	if err := app.Validate(); err != nil {
//		return err
//	}
//
// App aggregates the engine, auth, logging and HTTP settings. Connection
// settings (pg.Config, redis.Config) are loaded on demand by the commands
// that need them, so a missing PG_CONN_URL does not break "plans".
package config
