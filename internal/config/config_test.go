package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		Name:     "evoting",
		User:     "evoting",
		Password: "secret",
	}

	t.Run("defaults to sslmode disable", func(t *testing.T) {
		assert.Equal(t,
			"host=db.internal port=5432 user=evoting password=secret dbname=evoting sslmode=disable",
			cfg.DSN())
	})

	t.Run("uses the configured ssl mode", func(t *testing.T) {
		cfg := cfg
		cfg.SSLMode = "require"
		assert.Contains(t, cfg.DSN(), "sslmode=require")
	})
}
