// Package config loads the auth server configuration from the environment.
//
// Settings are read with cleanenv from env-tagged structs; a .env file can be
// loaded first with LoadEnvFile. Durations accept ISO 8601 ("PT1H") as well
// as Go syntax ("1h").
//
//	if err := config.LoadEnvFile(".env"); err != nil {
//		return err
//	}
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	ttl, _ := cfg.Provider.ParseTokenTTL()
package config
