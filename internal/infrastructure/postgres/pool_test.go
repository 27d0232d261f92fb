package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/pkg/config"
)

func TestNewPool_DSNInvalidoFallaSinConectar(t *testing.T) {
	pool, err := NewPool(context.Background(), config.DBConfig{DatabaseURL: "postgres://app@db:puerto/ledger"})
	require.Error(t, err)
	assert.Nil(t, pool)
	assert.Contains(t, err.Error(), "parse DSN")
}
