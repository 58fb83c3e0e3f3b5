package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppConfigValidate(t *testing.T) {
	cfg := AppConfig{Storage: "memory"}
	assert.NoError(t, cfg.Validate())

	cfg.Storage = "redis"
	assert.NoError(t, cfg.Validate())

	cfg.Storage = "postgres"
	assert.Error(t, cfg.Validate())

	cfg.Storage = "memory"
	cfg.HistoryWindow = -1
	assert.Error(t, cfg.Validate())
}
