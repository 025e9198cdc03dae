package infra

import (
	"log/slog"
	"testing"

	"github.com/featuringmyself/ledgy/internal/adapters/events"
	"github.com/featuringmyself/ledgy/internal/adapters/locking"
	"github.com/featuringmyself/ledgy/internal/adapters/ratesapi"
	"github.com/featuringmyself/ledgy/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExternals_Defaults(t *testing.T) {
	ext, cleanup, err := NewExternals(&config.Config{}, slog.Default())
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, &ratesapi.Client{}, ext.RateProvider)
	assert.Equal(t, events.Noop{}, ext.Publisher)
	assert.Equal(t, locking.Noop{}, ext.Locker)
}

func TestNewExternals_ConfiguredIntegrations(t *testing.T) {
	cfg := &config.Config{
		KafkaBrokers:    []string{"localhost:9092"},
		KafkaRatesTopic: "rates",
		RedisURL:        "redis://localhost:6379/0",
	}
	ext, cleanup, err := NewExternals(cfg, slog.Default())
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, &events.KafkaPublisher{}, ext.Publisher)
	assert.IsType(t, &locking.RedisLocker{}, ext.Locker)
}

func TestNewExternals_BadRedisURL(t *testing.T) {
	_, _, err := NewExternals(&config.Config{RedisURL: "::"}, slog.Default())
	assert.Error(t, err)
}
