package bootstrap

import (
	"context"
	"testing"

	"Octo_Social/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenStores_Memory(t *testing.T) {
	s, err := OpenStores(&config.Config{StoreDriver: DriverMemory}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, s.Ping(context.Background()))
	assert.NotNil(t, s.Users)
	assert.NotNil(t, s.Outbox)
	assert.NoError(t, s.Close())
}

func TestOpenStores_UnknownDriver(t *testing.T) {
	_, err := OpenStores(&config.Config{StoreDriver: "cassandra"}, zap.NewNop())
	assert.ErrorContains(t, err, "cassandra")
}
