package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_StorageConfig(t *testing.T) {
	// Setup environment variables
	os.Setenv("STORAGE_DOCUMENTS_BUCKET", "test-rfp-bucket")
	os.Setenv("STORAGE_SIGNED_URL_TTL_MINUTES", "30")
	defer func() {
		os.Unsetenv("STORAGE_DOCUMENTS_BUCKET")
		os.Unsetenv("STORAGE_SIGNED_URL_TTL_MINUTES")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "test-rfp-bucket", cfg.Storage.DocumentsBucket)
	assert.Equal(t, 30, cfg.Storage.SignedURLTTLMins)
}

func TestLoad_Defaults(t *testing.T) {
	// Ensure env vars are cleared
	os.Unsetenv("STORAGE_DOCUMENTS_BUCKET")
	os.Unsetenv("COMPLETION_MODEL")
	os.Unsetenv("EXTRACTION_URL")

	cfg, err := Load()
	assert.NoError(t, err)

	// Verify defaults
	assert.Equal(t, "rfp-documents", cfg.Storage.DocumentsBucket)
	assert.Equal(t, "gpt-4o-mini", cfg.Completion.Model)
	assert.Equal(t, "http://localhost:8090", cfg.Extraction.URL)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "rfp",
		Password: "secret",
		Database: "rfp_pipeline",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=rfp password=secret dbname=rfp_pipeline sslmode=require",
		cfg.DatabaseDSN(),
	)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	os.Setenv("SERVER_PORT", "not-a-port")
	defer os.Unsetenv("SERVER_PORT")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
}
